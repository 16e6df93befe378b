package kernel

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eigenpro/core/parallel"
	"github.com/YuminosukeSato/eigenpro/pkg/errors"
)

const (
	paramGamma  = "gamma"
	paramDegree = "degree"
	paramCoef0  = "coef0"
)

// resolved holds the parameters a named kernel actually receives after filtering.
type resolved struct {
	gamma  float64
	degree float64
	coef0  float64
}

type pairwiseFunc func(x, y []float64, p resolved) float64

type namedKernel struct {
	accepts []string
	fn      pairwiseFunc
}

func dot(x, y []float64) float64 { return floats.Dot(x, y) }

var registry = map[string]namedKernel{
	"linear": {
		fn: func(x, y []float64, _ resolved) float64 { return dot(x, y) },
	},
	"polynomial": {
		accepts: []string{paramGamma, paramDegree, paramCoef0},
		fn: func(x, y []float64, p resolved) float64 {
			return math.Pow(p.gamma*dot(x, y)+p.coef0, p.degree)
		},
	},
	"rbf": {
		accepts: []string{paramGamma},
		fn: func(x, y []float64, p resolved) float64 {
			dd := floats.Distance(x, y, 2)
			return math.Exp(-p.gamma * dd * dd)
		},
	},
	"laplacian": {
		accepts: []string{paramGamma},
		fn: func(x, y []float64, p resolved) float64 {
			return math.Exp(-p.gamma * floats.Distance(x, y, 1))
		},
	},
	"sigmoid": {
		accepts: []string{paramGamma, paramCoef0},
		fn: func(x, y []float64, p resolved) float64 {
			return math.Tanh(p.gamma*dot(x, y) + p.coef0)
		},
	},
	"cosine": {
		fn: func(x, y []float64, _ resolved) float64 {
			nx, ny := floats.Norm(x, 2), floats.Norm(y, 2)
			if nx == 0 || ny == 0 {
				return 0
			}
			return dot(x, y) / (nx * ny)
		},
	},
	"chi2": {
		accepts: []string{paramGamma},
		fn: func(x, y []float64, p resolved) float64 {
			return math.Exp(p.gamma * additiveChi2(x, y))
		},
	},
	"additive_chi2": {
		fn: func(x, y []float64, _ resolved) float64 { return additiveChi2(x, y) },
	},
}

func init() {
	registry["poly"] = registry["polynomial"]
}

// additiveChi2 is −Σ (x−y)² / (x+y), skipping terms where x+y is zero.
func additiveChi2(x, y []float64) float64 {
	var s float64
	for i, xi := range x {
		den := xi + y[i]
		if den == 0 {
			continue
		}
		diff := xi - y[i]
		s += diff * diff / den
	}
	return -s
}

// NamedKernels lists the names accepted by NewNamed in sorted order.
func NamedKernels() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AcceptedParams returns the parameter names a named kernel consumes, or nil
// for an unknown kernel.
func AcceptedParams(name string) []string {
	entry, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil
	}
	return append([]string(nil), entry.accepts...)
}

// Named is a generic pairwise kernel selected by name. Gamma, Degree and
// Coef0 are filtered down to the parameters the chosen kernel accepts.
type Named struct {
	name   string
	params Params
	def    namedKernel
}

// NewNamed returns the named kernel, or a ValidationError for unknown names.
func NewNamed(name string, p Params) (*Named, error) {
	key := strings.ToLower(name)
	entry, ok := registry[key]
	if !ok {
		return nil, errors.NewValidationError("kernel", "unknown kernel; expected gaussian, laplace, cauchy, "+
			strings.Join(NamedKernels(), ", ")+" or a custom function", name)
	}
	if p.Gamma != nil {
		if err := errors.CheckPositive(paramGamma, *p.Gamma); err != nil {
			return nil, err
		}
	}
	return &Named{name: key, params: p, def: entry}, nil
}

// Name implements Kernel.
func (k *Named) Name() string { return k.name }

// Params returns only the parameters this kernel accepts. An unset gamma is
// reported as nil.
func (k *Named) Params() map[string]interface{} {
	out := make(map[string]interface{}, len(k.def.accepts))
	for _, key := range k.def.accepts {
		switch key {
		case paramGamma:
			if k.params.Gamma != nil {
				out[key] = *k.params.Gamma
			} else {
				out[key] = nil
			}
		case paramDegree:
			out[key] = k.params.Degree
		case paramCoef0:
			out[key] = k.params.Coef0
		}
	}
	return out
}

func (k *Named) resolve(nFeatures int) resolved {
	var r resolved
	for _, key := range k.def.accepts {
		switch key {
		case paramGamma:
			if k.params.Gamma != nil {
				r.gamma = *k.params.Gamma
			} else {
				r.gamma = 1 / float64(nFeatures)
			}
		case paramDegree:
			r.degree = k.params.Degree
		case paramCoef0:
			r.coef0 = k.params.Coef0
		}
	}
	return r
}

// Compute implements Kernel.
func (k *Named) Compute(x, y *Points) *mat.Dense {
	_, d := x.Dims()
	p := k.resolve(d)
	return pairwise(x, y, func(a, b []float64) float64 { return k.def.fn(a, b, p) })
}

// Func is a user kernel on two points. params is the map given to Custom.
type Func func(x, y []float64, params map[string]interface{}) float64

// Custom wraps a user function and the keyword parameters passed to it.
type Custom struct {
	Label  string
	Fn     Func
	Params map[string]interface{}
}

// Name implements Kernel.
func (k Custom) Name() string {
	if k.Label != "" {
		return k.Label
	}
	return "custom"
}

// Compute implements Kernel.
func (k Custom) Compute(x, y *Points) *mat.Dense {
	params := k.Params
	if params == nil {
		params = map[string]interface{}{}
	}
	return pairwise(x, y, func(a, b []float64) float64 { return k.Fn(a, b, params) })
}

func pairwise(x, y *Points, f func(a, b []float64) float64) *mat.Dense {
	nx, d := x.Dims()
	ny, _ := y.Dims()
	if nx == 0 || ny == 0 {
		return &mat.Dense{}
	}
	out := make([]float64, nx*ny)
	parallel.ForRangeWithThreshold(nx, ny*d, parallelThreshold, func(start, end int) {
		a := make([]float64, d)
		b := make([]float64, d)
		for i := start; i < end; i++ {
			a = x.RowTo(a, i)
			for j := 0; j < ny; j++ {
				b = y.RowTo(b, j)
				out[i*ny+j] = float64(float32(f(a, b)))
			}
		}
	})
	return mat.NewDense(nx, ny, out)
}
