package nystrom

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eigenpro/pkg/errors"
)

// Solver returns the k largest eigenpairs of a symmetric matrix. Values are
// ascending and column j of the vector matrix belongs to value j.
type Solver interface {
	Top(w *mat.SymDense, k int) (values []float64, vectors *mat.Dense, err error)
}

// Exact runs a full symmetric decomposition and keeps the top slice. It is
// the reference for the other solvers and is slow beyond a few thousand rows.
type Exact struct{}

// Top implements Solver.
func (Exact) Top(w *mat.SymDense, k int) ([]float64, *mat.Dense, error) {
	m := w.SymmetricDim()
	if k < 1 || k > m {
		return nil, nil, errors.NewValidationError("k", "must be in [1, matrix size]", k)
	}

	var es mat.EigenSym
	if ok := es.Factorize(w, true); !ok {
		return nil, nil, errors.NewModelError("nystrom.Exact", "eigendecomposition failed", nil)
	}
	values := es.Values(nil)
	var all mat.Dense
	es.VectorsTo(&all)

	top := make([]float64, k)
	copy(top, values[m-k:])
	vectors := mat.DenseCopyOf(all.Slice(0, m, m-k, m))
	return top, vectors, nil
}

// Randomized approximates the top slice with subspace iteration followed by
// a Rayleigh–Ritz projection. It touches w only through products with a
// block of k+Oversample vectors, so it is much cheaper than Exact when k is
// small relative to the matrix size.
type Randomized struct {
	// Oversample is the number of extra basis vectors. Defaults to 10.
	Oversample int
	// Iterations is the number of power iterations. Defaults to 4.
	Iterations int
	// Seed drives the random starting block.
	Seed int64
}

// Top implements Solver.
func (r Randomized) Top(w *mat.SymDense, k int) ([]float64, *mat.Dense, error) {
	m := w.SymmetricDim()
	if k < 1 || k > m {
		return nil, nil, errors.NewValidationError("k", "must be in [1, matrix size]", k)
	}
	oversample := r.Oversample
	if oversample <= 0 {
		oversample = 10
	}
	iterations := r.Iterations
	if iterations <= 0 {
		iterations = 4
	}
	p := k + oversample
	if p > m {
		p = m
	}

	rng := rand.New(rand.NewSource(r.Seed))

	// Basis vectors are stored as rows so that each one is contiguous.
	basis := mat.NewDense(p, m, nil)
	for i := 0; i < p; i++ {
		for j := 0; j < m; j++ {
			basis.Set(i, j, rng.NormFloat64())
		}
	}
	orthonormalizeRows(basis, rng)

	var next mat.Dense
	for it := 0; it < iterations; it++ {
		// rows of basis·w are w applied to each basis vector since w is symmetric
		next.Mul(basis, w)
		basis.Copy(&next)
		orthonormalizeRows(basis, rng)
	}

	// Rayleigh–Ritz: B = Z·W·Zᵀ
	var zw, b mat.Dense
	zw.Mul(basis, w)
	b.Mul(&zw, basis.T())
	small := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			small.SetSym(i, j, (b.At(i, j)+b.At(j, i))/2)
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(small, true); !ok {
		return nil, nil, errors.NewModelError("nystrom.Randomized", "projected eigendecomposition failed", nil)
	}
	values := es.Values(nil)
	var u mat.Dense
	es.VectorsTo(&u)

	top := make([]float64, k)
	copy(top, values[p-k:])
	vectors := mat.NewDense(m, k, nil)
	vectors.Mul(basis.T(), u.Slice(0, p, p-k, p))
	return top, vectors, nil
}

// orthonormalizeRows applies modified Gram–Schmidt twice to the rows of z.
// A row that collapses to zero is replaced with a fresh random direction.
func orthonormalizeRows(z *mat.Dense, rng *rand.Rand) {
	rows, cols := z.Dims()
	raw := z.RawMatrix()
	row := func(i int) []float64 { return raw.Data[i*raw.Stride : i*raw.Stride+cols] }

	for i := 0; i < rows; i++ {
		v := row(i)
		for attempt := 0; ; attempt++ {
			for pass := 0; pass < 2; pass++ {
				for j := 0; j < i; j++ {
					u := row(j)
					floats.AddScaled(v, -floats.Dot(u, v), u)
				}
			}
			norm := floats.Norm(v, 2)
			if norm > 1e-12 || attempt > 3 {
				if norm > 0 {
					floats.Scale(1/norm, v)
				}
				break
			}
			for c := range v {
				v[c] = rng.NormFloat64()
			}
		}
	}
}
