// Package kernel computes kernel matrices between point sets.
//
// Three radial kernels (Gaussian, Laplace, Cauchy) have closed-form fast paths
// built on squared Euclidean distances. Any other named kernel goes through a
// generic pairwise registry (Named), and arbitrary user functions are wrapped
// by Custom. All values are single precision: inputs are held as float32 and
// every kernel value is rounded to float32 before being stored.
package kernel

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eigenpro/core/parallel"
	"github.com/YuminosukeSato/eigenpro/pkg/errors"
)

// Kernel computes the matrix K[i][j] = k(x_i, y_j).
type Kernel interface {
	// Name is the kernel family, e.g. "gaussian" or "polynomial".
	Name() string

	// Compute returns the |x|×|y| kernel matrix. Implementations must be
	// pure and safe for concurrent use.
	Compute(x, y *Points) *mat.Dense
}

// Evaluate is a convenience wrapper that converts X and Y and runs k.
func Evaluate(k Kernel, X, Y mat.Matrix) *mat.Dense {
	return k.Compute(NewPoints(X), NewPoints(Y))
}

// Gaussian is exp(−‖x−y‖² / (2·bandwidth²)).
type Gaussian struct {
	Bandwidth float64
}

// Name implements Kernel.
func (Gaussian) Name() string { return "gaussian" }

// Compute implements Kernel.
func (k Gaussian) Compute(x, y *Points) *mat.Dense {
	bw := float32(k.Bandwidth)
	shape := -1 / (2 * (bw * bw))
	return radial(x, y, func(d float32) float32 {
		return float32(math.Exp(float64(d * shape)))
	})
}

// Laplace is exp(−‖x−y‖ / bandwidth).
type Laplace struct {
	Bandwidth float64
}

// Name implements Kernel.
func (Laplace) Name() string { return "laplace" }

// Compute implements Kernel.
func (k Laplace) Compute(x, y *Points) *mat.Dense {
	bw := float32(k.Bandwidth)
	return radial(x, y, func(d float32) float32 {
		if d < 0 {
			d = 0
		}
		r := float32(math.Sqrt(float64(d)))
		return float32(math.Exp(float64(-r / bw)))
	})
}

// Cauchy is 1 / (1 + ‖x−y‖² / bandwidth²). It decays polynomially, so its
// values approach but never reach zero.
type Cauchy struct {
	Bandwidth float64
}

// Name implements Kernel.
func (Cauchy) Name() string { return "cauchy" }

// Compute implements Kernel.
func (k Cauchy) Compute(x, y *Points) *mat.Dense {
	bw := float32(k.Bandwidth)
	bw2 := bw * bw
	return radial(x, y, func(d float32) float32 {
		return 1 / (1 + d/bw2)
	})
}

func radial(x, y *Points, f func(dist float32) float32) *mat.Dense {
	nx, _ := x.Dims()
	ny, _ := y.Dims()
	if nx == 0 || ny == 0 {
		return &mat.Dense{}
	}
	dist := SquaredDistances(x, y)
	out := make([]float64, len(dist))
	parallel.ForRangeWithThreshold(nx, ny, parallelThreshold, func(start, end int) {
		for i := start * ny; i < end*ny; i++ {
			out[i] = float64(f(dist[i]))
		}
	})
	return mat.NewDense(nx, ny, out)
}

// Params collects every option a kernel may consume. Each kernel reads only
// the fields it accepts; the rest are ignored.
type Params struct {
	// Bandwidth for gaussian, laplace and cauchy.
	Bandwidth float64
	// Gamma for rbf, polynomial, sigmoid, laplacian and chi2. Nil means
	// 1/n_features.
	Gamma *float64
	// Degree for polynomial.
	Degree float64
	// Coef0 for polynomial and sigmoid.
	Coef0 float64
}

// Parse maps a kernel name to its implementation. Names are case-insensitive.
func Parse(name string, p Params) (Kernel, error) {
	switch strings.ToLower(name) {
	case "gaussian":
		if err := errors.CheckPositive("bandwidth", p.Bandwidth); err != nil {
			return nil, err
		}
		return Gaussian{Bandwidth: p.Bandwidth}, nil
	case "laplace":
		if err := errors.CheckPositive("bandwidth", p.Bandwidth); err != nil {
			return nil, err
		}
		return Laplace{Bandwidth: p.Bandwidth}, nil
	case "cauchy":
		if err := errors.CheckPositive("bandwidth", p.Bandwidth); err != nil {
			return nil, err
		}
		return Cauchy{Bandwidth: p.Bandwidth}, nil
	}
	named, err := NewNamed(name, p)
	if err != nil {
		return nil, err
	}
	return named, nil
}
