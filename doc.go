// Package eigenpro is the root of a kernel regression library for Go built
// around EigenPro, a preconditioned mini-batch solver for least-squares
// kernel regression that scales to large training sets.
//
// The estimator follows the scikit-learn fit/predict convention:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/eigenpro/datasets"
//	    "github.com/YuminosukeSato/eigenpro/eigenpro"
//	)
//
//	func main() {
//	    X, Y, _ := datasets.MakeSmoothRegression(4000, 20, 3, 0, 1)
//
//	    model := eigenpro.NewFastKernelRegression(
//	        eigenpro.WithBandwidth(1),
//	        eigenpro.WithNEpoch(3),
//	        eigenpro.WithRandomState(1),
//	    )
//	    if err := model.Fit(X, Y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    score, err := model.Score(X, Y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("R²:", score)
//	}
//
// # Packages
//
//   - eigenpro: FastKernelRegression, the preconditioner, hyperparameter
//     selection and the training loop
//   - kernel: float32 point sets and kernel matrices (gaussian, laplace,
//     cauchy, named pairwise kernels, user functions)
//   - nystrom: Nystrom eigensystem approximation with top-slice, exact and randomized
//     eigensolvers
//   - metrics: regression metrics (MSE, RMSE, MAE, R²)
//   - preprocessing: StandardScaler for putting features on one scale
//   - datasets: deterministic synthetic regression problems
//   - core/model: estimator interfaces and fitted state
//   - core/parallel: row-parallel helpers
//   - pkg/errors, pkg/log, pkg/monitor: errors, structured logging and
//     Prometheus metrics
//
// # Performance
//
// Kernel matrices are computed in single precision with blas32 and split
// across CPU cores for large blocks. Training memory is bounded by the
// mem_gb budget, which caps the batch size.
package eigenpro
