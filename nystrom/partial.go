package nystrom

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/lapack/gonum"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eigenpro/pkg/errors"
)

const (
	// maxInverseIterations bounds the inverse iteration steps per vector.
	maxInverseIterations = 6
	// clusterTol is the relative eigenvalue gap below which vectors are
	// reorthogonalized against each other.
	clusterTol = 1e-3
)

var impl = gonum.Implementation{}

// Partial computes only the top slice of the eigensystem. The matrix is
// reduced to tridiagonal form, all eigenvalues of the tridiagonal matrix are
// found with the root-free QR algorithm, and eigenvectors are computed only
// for the k largest by inverse iteration, then mapped back through the
// Householder reflectors.
//
// Eigenvalues agree with Exact to rounding; the vector cost is O(m²k)
// instead of the O(m³) accumulation a full decomposition performs.
type Partial struct {
	// Seed drives the inverse iteration starting vectors.
	Seed int64
}

// Top implements Solver.
func (p Partial) Top(w *mat.SymDense, k int) ([]float64, *mat.Dense, error) {
	m := w.SymmetricDim()
	if k < 1 || k > m {
		return nil, nil, errors.NewValidationError("k", "must be in [1, matrix size]", k)
	}
	if m == 1 {
		return []float64{w.At(0, 0)}, mat.NewDense(1, 1, []float64{1}), nil
	}

	a := make([]float64, m*m)
	for i := 0; i < m; i++ {
		for j := 0; j <= i; j++ {
			a[i*m+j] = w.At(i, j)
		}
	}

	d := make([]float64, m)
	e := make([]float64, m-1)
	tau := make([]float64, m-1)
	work := []float64{0}
	impl.Dsytrd(blas.Lower, m, a, m, d, e, tau, work, -1)
	work = make([]float64, int(work[0]))
	impl.Dsytrd(blas.Lower, m, a, m, d, e, tau, work, len(work))

	values := append([]float64(nil), d...)
	offDiag := append([]float64(nil), e...)
	if ok := impl.Dsterf(m, values, offDiag); !ok {
		return nil, nil, errors.NewModelError("nystrom.Partial", "tridiagonal eigenvalues did not converge", nil)
	}

	tri := tridiagonal{d: d, e: e}
	vecs := tri.inverseIteration(values[m-k:], rand.New(rand.NewSource(p.Seed)))

	// Z = Q·X with Q = H_0·…·H_{m−2}; the first row is untouched.
	z := make([]float64, m*k)
	for c, v := range vecs {
		for r, x := range v {
			z[r*k+c] = x
		}
	}
	work = []float64{0}
	impl.Dormqr(blas.Left, blas.NoTrans, m-1, k, m-1, a[m:], m, tau, z[k:], k, work, -1)
	work = make([]float64, int(work[0]))
	impl.Dormqr(blas.Left, blas.NoTrans, m-1, k, m-1, a[m:], m, tau, z[k:], k, work, len(work))

	top := append([]float64(nil), values[m-k:]...)
	return top, mat.NewDense(m, k, z), nil
}

// tridiagonal is a symmetric tridiagonal matrix with diagonal d and
// off-diagonal e.
type tridiagonal struct {
	d, e []float64
}

func (t tridiagonal) norm() float64 {
	n := len(t.d)
	var out float64
	for i := 0; i < n; i++ {
		s := math.Abs(t.d[i])
		if i > 0 {
			s += math.Abs(t.e[i-1])
		}
		if i < n-1 {
			s += math.Abs(t.e[i])
		}
		out = math.Max(out, s)
	}
	return out
}

// inverseIteration returns unit eigenvectors for the ascending eigenvalues
// in values. Vectors whose eigenvalues lie within clusterTol·‖T‖ of each
// other are kept orthogonal.
func (t tridiagonal) inverseIteration(values []float64, rng *rand.Rand) [][]float64 {
	n := len(t.d)
	k := len(values)
	tnorm := t.norm()
	if tnorm == 0 {
		tnorm = 1
	}
	eps := math.Nextafter(1, 2) - 1
	pertol := 10 * eps * tnorm
	ortol := clusterTol * tnorm

	out := make([][]float64, k)
	lu := newTridiagonalLU(n)
	clusterStart := k - 1
	prevShift := math.Inf(1)

	// largest first, so each cluster is walked downwards
	for j := k - 1; j >= 0; j-- {
		lambda := values[j]
		if j < k-1 && values[j+1]-lambda > ortol {
			clusterStart = j
			prevShift = math.Inf(1)
		}
		shift := lambda
		if prevShift-shift < pertol {
			shift = prevShift - pertol
		}
		prevShift = shift
		lu.factor(t, shift, eps*tnorm)

		x := make([]float64, n)
		for i := range x {
			x[i] = rng.NormFloat64()
		}
		floats.Scale(1/floats.Norm(x, 2), x)

		prev := make([]float64, n)
		for it := 0; it < maxInverseIterations; it++ {
			copy(prev, x)
			lu.solve(x)
			for c := j + 1; c <= clusterStart; c++ {
				floats.AddScaled(x, -floats.Dot(out[c], x), out[c])
			}
			norm := floats.Norm(x, 2)
			if norm == 0 || math.IsInf(norm, 0) || math.IsNaN(norm) {
				for i := range x {
					x[i] = rng.NormFloat64()
				}
				norm = floats.Norm(x, 2)
			}
			floats.Scale(1/norm, x)
			if it > 0 && math.Abs(floats.Dot(prev, x)) > 1-1e-12 {
				break
			}
		}
		out[j] = x
	}
	return out
}

// tridiagonalLU is an LU factorization with partial pivoting of T − σI.
type tridiagonalLU struct {
	dl, dd, du, du2 []float64
	swapped         []bool
}

func newTridiagonalLU(n int) *tridiagonalLU {
	return &tridiagonalLU{
		dl:      make([]float64, max(n-1, 0)),
		dd:      make([]float64, n),
		du:      make([]float64, max(n-1, 0)),
		du2:     make([]float64, max(n-2, 0)),
		swapped: make([]bool, max(n-1, 0)),
	}
}

// factor overwrites f with the factors of T − shift·I. Zero pivots are
// replaced with tiny so the solve stays finite.
func (f *tridiagonalLU) factor(t tridiagonal, shift, tiny float64) {
	n := len(t.d)
	for i := 0; i < n; i++ {
		f.dd[i] = t.d[i] - shift
	}
	copy(f.dl, t.e)
	copy(f.du, t.e)
	for i := range f.du2 {
		f.du2[i] = 0
	}

	for i := 0; i < n-1; i++ {
		if math.Abs(f.dd[i]) >= math.Abs(f.dl[i]) {
			f.swapped[i] = false
			if f.dd[i] == 0 {
				f.dd[i] = tiny
			}
			fact := f.dl[i] / f.dd[i]
			f.dl[i] = fact
			f.dd[i+1] -= fact * f.du[i]
			continue
		}
		f.swapped[i] = true
		fact := f.dd[i] / f.dl[i]
		f.dd[i] = f.dl[i]
		f.dl[i] = fact
		tmp := f.du[i]
		f.du[i] = f.dd[i+1]
		f.dd[i+1] = tmp - fact*f.dd[i+1]
		if i < n-2 {
			f.du2[i] = f.du[i+1]
			f.du[i+1] = -fact * f.du[i+1]
		}
	}
	if f.dd[n-1] == 0 {
		f.dd[n-1] = tiny
	}
}

// solve overwrites b with (T − σI)⁻¹·b.
func (f *tridiagonalLU) solve(b []float64) {
	n := len(b)
	for i := 0; i < n-1; i++ {
		if !f.swapped[i] {
			b[i+1] -= f.dl[i] * b[i]
			continue
		}
		tmp := b[i]
		b[i] = b[i+1]
		b[i+1] = tmp - f.dl[i]*b[i]
	}

	b[n-1] /= f.dd[n-1]
	if n > 1 {
		b[n-2] = (b[n-2] - f.du[n-2]*b[n-1]) / f.dd[n-2]
	}
	for i := n - 3; i >= 0; i-- {
		b[i] = (b[i] - f.du[i]*b[i+1] - f.du2[i]*b[i+2]) / f.dd[i]
	}
}
