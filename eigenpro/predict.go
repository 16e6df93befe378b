package eigenpro

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eigenpro/kernel"
)

// predictChunks computes K(x, centers)·coef in consecutive row chunks of at
// most chunk rows, so the kernel block never exceeds chunk×n.
func predictChunks(k kernel.Kernel, centers *kernel.Points, coef *mat.Dense, x *kernel.Points, chunk int) *mat.Dense {
	rows, _ := x.Dims()
	_, t := coef.Dims()
	out := mat.NewDense(rows, t, nil)
	if chunk < 1 {
		chunk = rows
	}

	idx := make([]int, 0, chunk)
	for start := 0; start < rows; start += chunk {
		end := start + chunk
		if end > rows {
			end = rows
		}
		idx = idx[:0]
		for i := start; i < end; i++ {
			idx = append(idx, i)
		}
		kfeat := k.Compute(x.Select(idx), centers)
		dst := out.Slice(start, end, 0, t).(*mat.Dense)
		dst.Mul(kfeat, coef)
	}
	return out
}
