// Package datasets generates deterministic synthetic regression problems.
package datasets

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// smoothTerms is the number of sinusoids summed per target.
const smoothTerms = 4

// Smooth is a smooth vector-valued function
//
//	f_j(x) = (1/√terms) Σ_k sin(⟨w_jk, x⟩ + b_jk)
//
// with w_jk ~ N(0, I) and b_jk uniform in [0, 2π). Each f_j is Lipschitz with
// constant at most Σ_k ‖w_jk‖/√terms.
type Smooth struct {
	nFeatures int
	nTargets  int
	weights   *mat.Dense // (nTargets·smoothTerms)×nFeatures
	phases    []float64
}

// NewSmooth draws a random Smooth function from rng.
func NewSmooth(nFeatures, nTargets int, rng *rand.Rand) *Smooth {
	rows := nTargets * smoothTerms
	w := make([]float64, rows*nFeatures)
	for i := range w {
		w[i] = rng.NormFloat64()
	}
	phases := make([]float64, rows)
	for i := range phases {
		phases[i] = 2 * math.Pi * rng.Float64()
	}
	return &Smooth{
		nFeatures: nFeatures,
		nTargets:  nTargets,
		weights:   mat.NewDense(rows, nFeatures, w),
		phases:    phases,
	}
}

// Dims returns the input and output dimensions.
func (s *Smooth) Dims() (features, targets int) { return s.nFeatures, s.nTargets }

// Eval returns f(X) as an n×targets matrix. X must have the function's
// feature dimension.
func (s *Smooth) Eval(X mat.Matrix) *mat.Dense {
	n, _ := X.Dims()
	var proj mat.Dense
	proj.Mul(X, s.weights.T()) // n×(targets·terms)

	norm := 1 / math.Sqrt(smoothTerms)
	out := mat.NewDense(n, s.nTargets, nil)
	for i := 0; i < n; i++ {
		row := proj.RawRowView(i)
		for j := 0; j < s.nTargets; j++ {
			var sum float64
			for k := 0; k < smoothTerms; k++ {
				c := j*smoothTerms + k
				sum += math.Sin(row[c] + s.phases[c])
			}
			out.Set(i, j, sum*norm)
		}
	}
	return out
}

// Lipschitz returns an upper bound on the Lipschitz constant of target j.
func (s *Smooth) Lipschitz(j int) float64 {
	var sum float64
	for k := 0; k < smoothTerms; k++ {
		sum += mat.Norm(s.weights.RowView(j*smoothTerms+k), 2)
	}
	return sum / math.Sqrt(smoothTerms)
}

// MakeSmoothRegression samples n points of dimension d with independent
// N(0, 1/d) coordinates, so rows have norm close to 1, and evaluates a
// random Smooth function on them with Gaussian noise of standard deviation
// noise. The same seed always yields the same data and function.
func MakeSmoothRegression(n, d, t int, noise float64, seed int64) (X, Y *mat.Dense, f *Smooth) {
	rng := rand.New(rand.NewSource(seed))
	f = NewSmooth(d, t, rng)

	scale := 1 / math.Sqrt(float64(d))
	data := make([]float64, n*d)
	for i := range data {
		data[i] = rng.NormFloat64() * scale
	}
	X = mat.NewDense(n, d, data)

	Y = f.Eval(X)
	if noise > 0 {
		raw := Y.RawMatrix()
		for i := range raw.Data {
			raw.Data[i] += noise * rng.NormFloat64()
		}
	}
	return X, Y, f
}

// MakeGaussianNoise returns n standard normal points of dimension d paired
// with independent standard normal targets, which no model can predict
// better than the mean.
func MakeGaussianNoise(n, d, t int, seed int64) (X, Y *mat.Dense) {
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, n*d)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	y := make([]float64, n*t)
	for i := range y {
		y[i] = rng.NormFloat64()
	}
	return mat.NewDense(n, d, x), mat.NewDense(n, t, y)
}
