package kernel

import (
	"sync"

	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/mat"
)

// Points is an immutable set of points stored as float32, row-major.
//
// Kernel values are computed in single precision, so point sets are
// converted once and shared by every kernel evaluation against them. The
// squared row norms are computed on first use and cached; passing the same
// *Points as the right-hand side of many Compute calls (the fitted centers)
// reuses them.
type Points struct {
	rows, cols int
	data       []float32

	normsOnce sync.Once
	norms     []float32
}

// NewPoints converts m to single precision.
func NewPoints(m mat.Matrix) *Points {
	r, c := m.Dims()
	data := make([]float32, r*c)
	if raw, ok := m.(mat.RawMatrixer); ok {
		rm := raw.RawMatrix()
		for i := 0; i < r; i++ {
			src := rm.Data[i*rm.Stride : i*rm.Stride+c]
			dst := data[i*c : (i+1)*c]
			for j, v := range src {
				dst[j] = float32(v)
			}
		}
	} else {
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				data[i*c+j] = float32(m.At(i, j))
			}
		}
	}
	return &Points{rows: r, cols: c, data: data}
}

// NewPointsFromSlice wraps a row-major float32 slice of length rows*cols.
// The slice must not be modified afterwards.
func NewPointsFromSlice(rows, cols int, data []float32) *Points {
	if len(data) != rows*cols {
		panic("kernel: data length does not match dimensions")
	}
	return &Points{rows: rows, cols: cols, data: data}
}

// Dims returns the number of points and their dimension.
func (p *Points) Dims() (rows, cols int) { return p.rows, p.cols }

// Row returns point i. The slice aliases the internal storage.
func (p *Points) Row(i int) []float32 {
	return p.data[i*p.cols : (i+1)*p.cols]
}

// RowTo writes point i into dst as float64 and returns dst.
func (p *Points) RowTo(dst []float64, i int) []float64 {
	if cap(dst) < p.cols {
		dst = make([]float64, p.cols)
	}
	dst = dst[:p.cols]
	for j, v := range p.Row(i) {
		dst[j] = float64(v)
	}
	return dst
}

// Select gathers the rows at idx into a new point set.
func (p *Points) Select(idx []int) *Points {
	data := make([]float32, len(idx)*p.cols)
	for k, i := range idx {
		copy(data[k*p.cols:(k+1)*p.cols], p.Row(i))
	}
	return &Points{rows: len(idx), cols: p.cols, data: data}
}

// Dense returns a float64 copy of the points.
func (p *Points) Dense() *mat.Dense {
	out := mat.NewDense(p.rows, p.cols, nil)
	for i := 0; i < p.rows; i++ {
		out.SetRow(i, p.RowTo(nil, i))
	}
	return out
}

// SquaredNorms returns ‖p_i‖² for every point, computed once in float32.
func (p *Points) SquaredNorms() []float32 {
	p.normsOnce.Do(func() {
		p.norms = make([]float32, p.rows)
		for i := range p.norms {
			var s float32
			for _, v := range p.Row(i) {
				s += v * v
			}
			p.norms[i] = s
		}
	})
	return p.norms
}

func (p *Points) general() blas32.General {
	return blas32.General{Rows: p.rows, Cols: p.cols, Stride: p.cols, Data: p.data}
}
