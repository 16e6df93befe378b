package errors

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CountNonFinite returns the number of NaN or ±Inf entries in m.
func CountNonFinite(m mat.Matrix) int {
	r, c := m.Dims()
	if raw, ok := m.(mat.RawMatrixer); ok {
		rm := raw.RawMatrix()
		n := 0
		for i := 0; i < r; i++ {
			for _, v := range rm.Data[i*rm.Stride : i*rm.Stride+c] {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					n++
				}
			}
		}
		return n
	}
	n := 0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				n++
			}
		}
	}
	return n
}

// CheckFinite returns a ValidationError naming param if m holds NaN or Inf.
func CheckFinite(param string, m mat.Matrix) error {
	if n := CountNonFinite(m); n > 0 {
		return NewValidationError(param, "input contains NaN or infinity", n)
	}
	return nil
}

// CheckPositive returns a ValidationError unless v is finite and > 0.
func CheckPositive(param string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return NewValidationError(param, "must be a positive finite number", v)
	}
	return nil
}
