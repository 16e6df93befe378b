// Package metrics computes regression scores for vector and multi-output
// predictions.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/eigenpro/pkg/errors"
)

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVectors("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// MSEMatrix is the mean squared error over every entry of two n×t
// matrices, which equals the uniform average of the per-target MSEs.
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	r, c, err := checkMatrices("MSEMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var diff mat.Dense
	diff.Sub(yTrue, yPred)
	d := diff.RawMatrix().Data
	return floats.Dot(d, d) / float64(r*c), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVectors("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	diff := make([]float64, n)
	floats.SubTo(diff, mat.Col(nil, 0, yTrue), mat.Col(nil, 0, yPred))
	return floats.Norm(diff, 1) / float64(n), nil
}

// R2Score は決定係数（R²）を計算する
//
// A constant yTrue scores 1 when predicted exactly and 0 otherwise.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	if _, err := checkVectors("R2Score", yTrue, yPred); err != nil {
		return 0, err
	}
	return r2(mat.Col(nil, 0, yTrue), mat.Col(nil, 0, yPred)), nil
}

// R2ScoreMatrix is the uniform average of the per-column R² of two n×t
// matrices.
func R2ScoreMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	_, c, err := checkMatrices("R2ScoreMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for j := 0; j < c; j++ {
		sum += r2(mat.Col(nil, j, yTrue), mat.Col(nil, j, yPred))
	}
	return sum / float64(c), nil
}

func r2(yTrue, yPred []float64) float64 {
	mean := stat.Mean(yTrue, nil)

	// 全変動（TSS）と残差変動（RSS）
	var tss, rss float64
	for i, y := range yTrue {
		tss += (y - mean) * (y - mean)
		rss += (y - yPred[i]) * (y - yPred[i])
	}
	if tss == 0 {
		if rss == 0 {
			return 1
		}
		return 0
	}
	return 1 - rss/tss
}

func checkVectors(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil || yTrue.IsEmpty() || yPred.IsEmpty() {
		return 0, errors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

func checkMatrices(op string, yTrue, yPred mat.Matrix) (int, int, error) {
	if yTrue == nil || yPred == nil {
		return 0, 0, errors.NewValueError(op, "nil matrix")
	}
	if e, ok := yTrue.(interface{ IsEmpty() bool }); ok && e.IsEmpty() {
		return 0, 0, errors.NewValueError(op, "empty matrix")
	}
	if e, ok := yPred.(interface{ IsEmpty() bool }); ok && e.IsEmpty() {
		return 0, 0, errors.NewValueError(op, "empty matrix")
	}
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()
	if rTrue == 0 || cTrue == 0 {
		return 0, 0, errors.NewValueError(op, "empty matrix")
	}
	if rTrue != rPred {
		return 0, 0, errors.NewDimensionError(op, rTrue, rPred, 0)
	}
	if cTrue != cPred {
		return 0, 0, errors.NewDimensionError(op, cTrue, cPred, 1)
	}
	return rTrue, cTrue, nil
}
