// Package preprocessing holds feature transformations applied before kernel
// regression.
package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/eigenpro/core/model"
	"github.com/YuminosukeSato/eigenpro/pkg/errors"
)

const scalerName = "StandardScaler"

// minScale replaces the standard deviation of constant features.
const minScale = 1e-8

var _ model.Transformer = (*StandardScaler)(nil)

// StandardScaler standardizes features to zero mean and unit variance.
//
// Radial kernels see every feature through one bandwidth, so features on
// different scales should be standardized before Fit.
//
//	scaler := preprocessing.NewStandardScalerDefault()
//	Xs, err := scaler.FitTransform(X)
type StandardScaler struct {
	// WithMean centers each feature (default true).
	WithMean bool
	// WithStd divides each feature by its population standard deviation
	// (default true).
	WithStd bool

	state *model.FitState[scalerStats]
}

type scalerStats struct {
	mean  []float64
	scale []float64
}

// NewStandardScaler returns an unfitted scaler.
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
		state:    &model.FitState[scalerStats]{},
	}
}

// NewStandardScalerDefault centers and scales.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit computes per-feature means and standard deviations. Constant features
// get a scale of 1.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	if X == nil {
		return errors.ErrEmptyData
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	if err := errors.CheckFinite("X", X); err != nil {
		return err
	}

	stats := scalerStats{mean: make([]float64, c), scale: make([]float64, c)}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean, std := stat.PopMeanStdDev(col, nil)
		if s.WithMean {
			stats.mean[j] = mean
		}
		stats.scale[j] = 1
		if s.WithStd && std >= minScale {
			stats.scale[j] = std
		}
	}
	s.state.Set(&stats)
	return nil
}

// Transform applies (x − mean) / scale column-wise.
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	return s.apply(X, "Transform", func(v, mean, scale float64) float64 {
		return (v - mean) / scale
	})
}

// FitTransform fits on X and transforms it.
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardized data back to the original scale.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	return s.apply(X, "InverseTransform", func(v, mean, scale float64) float64 {
		return v*scale + mean
	})
}

func (s *StandardScaler) apply(X mat.Matrix, method string, f func(v, mean, scale float64) float64) (mat.Matrix, error) {
	stats, err := s.state.Get(scalerName, method)
	if err != nil {
		return nil, err
	}
	if X == nil {
		return nil, errors.ErrEmptyData
	}
	r, c := X.Dims()
	if c != len(stats.mean) {
		return nil, errors.NewDimensionError("StandardScaler."+method, len(stats.mean), c, 1)
	}

	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return f(v, stats.mean[j], stats.scale[j])
	}, X)
	return out, nil
}

// Mean returns the fitted feature means, or nil before Fit.
func (s *StandardScaler) Mean() []float64 {
	stats, err := s.state.Get(scalerName, "Mean")
	if err != nil {
		return nil
	}
	return append([]float64(nil), stats.mean...)
}

// Scale returns the fitted feature scales, or nil before Fit.
func (s *StandardScaler) Scale() []float64 {
	stats, err := s.state.Get(scalerName, "Scale")
	if err != nil {
		return nil
	}
	return append([]float64(nil), stats.scale...)
}

// IsFitted reports whether Fit has succeeded.
func (s *StandardScaler) IsFitted() bool { return s.state.IsFitted() }

// GetParams returns with_mean and with_std.
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, len(s.Mean()))
}
