// Package model defines the estimator contracts shared by eigenpro's models.
package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit trains the model. y may be a mat.Vector (single target) or an
	// n×t matrix; the choice is remembered for Predict's output shape.
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer computes the coefficient of determination R² of the predictions.
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// ParameterGetter exposes hyperparameters under their canonical names.
type ParameterGetter interface {
	GetParams() map[string]interface{}
}

// ParameterSetter updates hyperparameters by name.
type ParameterSetter interface {
	SetParams(params map[string]interface{}) error
}

// Regressor is a fit/predict/score estimator with inspectable parameters.
type Regressor interface {
	Fitter
	Predictor
	Scorer
	ParameterGetter
	ParameterSetter
}

// Transformer は変換器のインターフェース
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}
