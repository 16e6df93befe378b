package eigenpro

import "strconv"

// Size is a count that is either fixed by the caller or chosen automatically
// during Fit. The zero value is Auto.
type Size struct {
	n     int
	fixed bool
}

// Auto lets Fit derive the value from the data.
func Auto() Size { return Size{} }

// Fixed requests exactly n.
func Fixed(n int) Size { return Size{n: n, fixed: true} }

// IsAuto reports whether the value is chosen during Fit.
func (s Size) IsAuto() bool { return !s.fixed }

// Value returns the fixed value and true, or 0 and false for Auto.
func (s Size) Value() (int, bool) { return s.n, s.fixed }

// String returns "auto" or the decimal value.
func (s Size) String() string {
	if !s.fixed {
		return "auto"
	}
	return strconv.Itoa(s.n)
}
