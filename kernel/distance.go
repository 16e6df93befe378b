package kernel

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/YuminosukeSato/eigenpro/core/parallel"
)

// parallelThreshold is the number of matrix entries below which elementwise
// kernel transforms run on the calling goroutine.
const parallelThreshold = 1 << 16

// SquaredDistances returns the |x|×|y| matrix of squared Euclidean distances
// in row-major float32, using ‖x‖² + ‖y‖² − 2⟨x, y⟩ with the cross term from
// a single-precision GEMM. Negative round-off is clamped to 0, and when x and
// y are the same point set the diagonal is exactly 0.
func SquaredDistances(x, y *Points) []float32 {
	nx, d := x.Dims()
	ny, dy := y.Dims()
	if d != dy {
		panic("kernel: point dimension mismatch")
	}
	out := make([]float32, nx*ny)
	if nx == 0 || ny == 0 {
		return out
	}

	dist := blas32.General{Rows: nx, Cols: ny, Stride: ny, Data: out}
	if d > 0 {
		blas32.Gemm(blas.NoTrans, blas.Trans, -2, x.general(), y.general(), 0, dist)
	}

	xx := x.SquaredNorms()
	yy := y.SquaredNorms()
	same := x == y
	parallel.ForRangeWithThreshold(nx, ny, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			row := out[i*ny : (i+1)*ny]
			for j := range row {
				v := row[j] + xx[i] + yy[j]
				if v < 0 {
					v = 0
				}
				row[j] = v
			}
			if same {
				row[i] = 0
			}
		}
	})
	return out
}
