// Package nystrom estimates the top eigensystem of a kernel operator from a
// subsample of its points.
//
// For a subsample of m points out of n, the m×m kernel matrix scaled by n/m
// has eigenvalues that estimate those of the full n×n kernel matrix. Its
// eigenvectors, scaled by sqrt(n/m), estimate the operator's eigenfunctions
// evaluated at the subsample points.
package nystrom

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eigenpro/kernel"
	"github.com/YuminosukeSato/eigenpro/pkg/errors"
)

// EigenvalueFloor is the smallest eigenvalue SVD returns.
const EigenvalueFloor = float32(1e-7)

// SVD returns the nComponents largest eigenvalues of the scaled subsample
// kernel matrix in descending order, each at least EigenvalueFloor, and the
// matching eigenvectors as the columns of an m×nComponents matrix scaled by
// sqrt(nTotal/m). A nil solver means Partial.
//
// nComponents must be in [1, m−1], or exactly 1 for a single-point
// subsample; callers clamp it beforehand.
func SVD(k kernel.Kernel, sub *kernel.Points, nTotal, nComponents int, solver Solver) ([]float64, *mat.Dense, error) {
	m, _ := sub.Dims()
	if nComponents < 1 || nComponents > max(1, m-1) {
		return nil, nil, errors.NewValidationError("n_components",
			"must be at least 1 and smaller than the subsample size", nComponents)
	}
	if nTotal < m {
		return nil, nil, errors.NewValidationError("n_total",
			"must not be smaller than the subsample size", nTotal)
	}
	if solver == nil {
		solver = Partial{}
	}

	K := k.Compute(sub, sub)
	ratio := float32(nTotal) / float32(m)
	w := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := 0; j <= i; j++ {
			w.SetSym(j, i, float64(float32(K.At(i, j))*ratio))
		}
	}

	values, vectors, err := solver.Top(w, nComponents)
	if err != nil {
		return nil, nil, errors.Wrap(err, "nystrom: top eigenpairs")
	}

	vScale := float32(math.Sqrt(float64(nTotal) / float64(m)))
	S := make([]float64, nComponents)
	V := mat.NewDense(m, nComponents, nil)
	for c := 0; c < nComponents; c++ {
		src := nComponents - 1 - c
		s := float32(values[src])
		if s < EigenvalueFloor {
			s = EigenvalueFloor
		}
		S[c] = float64(s)
		for r := 0; r < m; r++ {
			V.Set(r, c, float64(float32(vectors.At(r, src))*vScale))
		}
	}
	return S, V, nil
}
