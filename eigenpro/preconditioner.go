package eigenpro

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eigenpro/kernel"
	"github.com/YuminosukeSato/eigenpro/nystrom"
	"github.com/YuminosukeSato/eigenpro/pkg/errors"
)

// Preconditioner damps the top eigendirections of the kernel operator,
// estimated on a fixed subsample of the training points.
type Preconditioner struct {
	// Eigenvalues are all eigenvalues returned by the Nystrom step, descending.
	Eigenvalues []float64
	// V holds the NComponents retained eigenvectors as columns (m×NComponents).
	V *mat.Dense
	// Q is the damping coefficient of each retained direction.
	Q []float64
	// NComponents is the damping rank. Zero disables the correction.
	NComponents int
	// MaxS is the normalized top eigenvalue of the damped operator.
	MaxS float32
	// Beta is the largest diagonal entry of the damped kernel over the
	// subsample.
	Beta float32
}

// Setup builds the preconditioner from the subsample sub of an n-point
// training set. maxComponents eigenpairs are requested; the damping rank
// is then limited so that the implied batch size stays below
// min(m, maxBatchForMemory). alpha is the damping exponent.
func Setup(k kernel.Kernel, sub *kernel.Points, maxComponents, nTotal, maxBatchForMemory int,
	alpha float64, solver nystrom.Solver) (*Preconditioner, error) {
	S, V, err := nystrom.SVD(k, sub, nTotal, maxComponents, solver)
	if err != nil {
		return nil, errors.Wrap(err, "eigenpro: nystrom approximation")
	}
	m, _ := sub.Dims()

	limit := float32(m)
	if mb := float32(maxBatchForMemory); mb < limit {
		limit = mb
	}
	n32 := float32(nTotal)
	count := 0
	for _, s := range S {
		if n32/float32(s) < limit {
			count++
		}
	}
	nc := count - 1
	if nc < 0 {
		nc = 0
	}

	a := float32(alpha)
	sCut := float32(S[nc])
	scale := float32(math.Pow(float64(float32(S[0])/sCut), float64(a)))

	Q := make([]float64, nc)
	for i := 0; i < nc; i++ {
		si := float32(S[i])
		ratio := float32(math.Pow(float64(sCut/si), float64(a)))
		Q[i] = float64((1 - ratio) / si)
	}

	var retained *mat.Dense
	if nc > 0 {
		retained = mat.DenseCopyOf(V.Slice(0, m, 0, nc))
	}

	maxS := float32(S[0]) / n32
	beta := float32(math.Inf(-1))
	ratio := float64(m) / float64(nTotal)
	for r := 0; r < m; r++ {
		var sq float64
		if retained != nil {
			for _, v := range retained.RawRowView(r) {
				sq += v * v
			}
		}
		if kxx := float32(1 - sq*ratio); kxx > beta {
			beta = kxx
		}
	}

	return &Preconditioner{
		Eigenvalues: S,
		V:           retained,
		Q:           Q,
		NComponents: nc,
		MaxS:        maxS / scale,
		Beta:        beta,
	}, nil
}

// Correction returns V·diag(Q)·Vᵀ·kSubᵀ·g, evaluated right to left, where
// kSub is the batch kernel restricted to the subsample columns (bs×m) and g
// the batch gradient (bs×t). The result is m×t, or nil when NComponents is 0.
func (p *Preconditioner) Correction(kSub, g mat.Matrix) *mat.Dense {
	if p.NComponents == 0 {
		return nil
	}
	var proj, coeffs, delta mat.Dense
	proj.Mul(kSub.T(), g)      // m×t
	coeffs.Mul(p.V.T(), &proj) // nc×t
	for i, q := range p.Q {
		row := coeffs.RawRowView(i)
		for j := range row {
			row[j] *= q
		}
	}
	delta.Mul(p.V, &coeffs)
	return &delta
}
