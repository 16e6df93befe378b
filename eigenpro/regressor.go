// Package eigenpro implements EigenPro kernel regression: least-squares
// kernel regression trained by mini-batch gradient descent with a
// preconditioner built from the top eigensystem of the kernel operator.
//
// The eigensystem is estimated with a Nystrom approximation on a random
// subsample. Damping its top directions lets the iteration use a much larger
// step than plain gradient descent, which converges slowly along the small
// eigenvalues of a smooth kernel.
//
//	model := eigenpro.NewFastKernelRegression(
//	    eigenpro.WithNEpoch(3),
//	    eigenpro.WithBandwidth(1),
//	    eigenpro.WithRandomState(1),
//	)
//	if err := model.Fit(X, Y); err != nil {
//	    return err
//	}
//	pred, err := model.Predict(X)
//
// Reference: S. Ma and M. Belkin, "Diving into the shallows: a computational
// perspective on large-scale shallow learning", NIPS 2017.
package eigenpro

import (
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eigenpro/core/model"
	"github.com/YuminosukeSato/eigenpro/kernel"
	"github.com/YuminosukeSato/eigenpro/metrics"
	"github.com/YuminosukeSato/eigenpro/nystrom"
	"github.com/YuminosukeSato/eigenpro/pkg/errors"
	"github.com/YuminosukeSato/eigenpro/pkg/log"
	"github.com/YuminosukeSato/eigenpro/pkg/monitor"
)

const modelName = "FastKernelRegression"

var _ model.Regressor = (*FastKernelRegression)(nil)

// FastKernelRegression is a least-squares kernel regressor trained with
// mini-batch EigenPro iterations.
//
// Fit replaces the fitted state atomically; Predict and Score may be called
// concurrently on a fitted model. Options and SetParams are not safe to use
// concurrently with Fit.
type FastKernelRegression struct {
	bs            Size
	nEpoch        int
	nComponents   int
	subsampleSize Size
	memGB         float64

	kernelName   string
	kernel       kernel.Kernel
	kernelFunc   kernel.Func
	bandwidth    float64
	gamma        *float64
	degree       float64
	coef0        float64
	kernelParams map[string]interface{}

	randomState *int64
	solver      nystrom.Solver
	callbacks   []Callback
	logger      log.Logger
	monitor     *monitor.Collector

	state *model.FitState[fitted]
}

// fitted is everything Predict needs, set once per successful Fit.
type fitted struct {
	kernel    kernel.Kernel
	centers   *kernel.Points
	coef      *mat.Dense
	subsample []int
	pre       *Preconditioner
	hp        Hyperparams

	nFeatures int
	nTargets  int
	was1D     bool
}

// NewFastKernelRegression returns an unfitted model with defaults: automatic
// batch and subsample sizes, 1 epoch, up to 1000 components, a 12 GiB memory
// budget and a gaussian kernel of bandwidth 5.
func NewFastKernelRegression(opts ...Option) *FastKernelRegression {
	r := &FastKernelRegression{
		bs:            Auto(),
		nEpoch:        1,
		nComponents:   1000,
		subsampleSize: Auto(),
		memGB:         12,
		kernelName:    "gaussian",
		bandwidth:     5,
		degree:        3,
		coef0:         1,
		state:         &model.FitState[fitted]{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *FastKernelRegression) getLogger() log.Logger {
	if r.logger != nil {
		return r.logger
	}
	return log.GetLoggerWithName("eigenpro").With(log.ModelNameKey, modelName)
}

func (r *FastKernelRegression) validateParams() error {
	if bs, fixed := r.bs.Value(); fixed && bs < 1 {
		return errors.NewValidationError("bs", "must be a positive integer or auto", bs)
	}
	if m, fixed := r.subsampleSize.Value(); fixed && m < 1 {
		return errors.NewValidationError("subsample_size", "must be a positive integer or auto", m)
	}
	if r.nEpoch < 0 {
		return errors.NewValidationError("n_epoch", "must not be negative", r.nEpoch)
	}
	if r.nComponents < 1 {
		return errors.NewValidationError("n_components", "must be a positive integer", r.nComponents)
	}
	return errors.CheckPositive("mem_gb", r.memGB)
}

func (r *FastKernelRegression) resolveKernel() (kernel.Kernel, error) {
	if r.kernel != nil {
		return r.kernel, nil
	}
	if r.kernelFunc != nil {
		return kernel.Custom{Label: r.kernelName, Fn: r.kernelFunc, Params: r.kernelParams}, nil
	}
	return kernel.Parse(r.kernelName, kernel.Params{
		Bandwidth: r.bandwidth,
		Gamma:     r.gamma,
		Degree:    r.degree,
		Coef0:     r.coef0,
	})
}

func (r *FastKernelRegression) kernelLabel() string {
	if r.kernel != nil {
		return r.kernel.Name()
	}
	return r.kernelName
}

func (r *FastKernelRegression) newRand() *rand.Rand {
	seed := time.Now().UnixNano()
	if r.randomState != nil {
		seed = *r.randomState
	}
	return rand.New(rand.NewSource(seed))
}

// Fit trains the model on X (n×d) and Y, which is either a mat.Vector of
// length n or an n×t matrix. At least 3 samples are required. On error the
// previous fitted state, if any, is kept.
func (r *FastKernelRegression) Fit(X, Y mat.Matrix) (err error) {
	start := time.Now()
	label := r.kernelLabel()
	defer func() { r.monitor.ObserveFit(label, time.Since(start), err) }()
	defer errors.Recover(&err, "FastKernelRegression.Fit")

	if err := r.validateParams(); err != nil {
		return err
	}
	if X == nil || Y == nil {
		return errors.ErrEmptyData
	}

	n, d := X.Dims()
	if n < 3 {
		return errors.Mark(errors.NewValidationError("n_samples", "at least 3 samples are required", n),
			errors.ErrTooFewSamples)
	}
	_, was1D := Y.(mat.Vector)
	yn, t := Y.Dims()
	if yn != n {
		return errors.NewDimensionError("FastKernelRegression.Fit", n, yn, 0)
	}
	if err := errors.CheckFinite("X", X); err != nil {
		return err
	}
	if err := errors.CheckFinite("Y", Y); err != nil {
		return err
	}

	k, err := r.resolveKernel()
	if err != nil {
		return err
	}
	label = k.Name()
	logger := r.getLogger().With(log.OperationKey, log.OperationFit, log.KernelKey, label)

	rng := r.newRand()
	centers := kernel.NewPoints(X)
	centers.SquaredNorms()

	targets := mat.NewDense(n, t, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < t; j++ {
			targets.Set(i, j, float64(float32(Y.At(i, j))))
		}
	}

	budget := PlanBudget(n, d, t, r.subsampleSize, r.nComponents, r.memGB)
	if m, fixed := r.subsampleSize.Value(); fixed && m > budget.SubsampleSize {
		errors.Warn(errors.NewClampWarning("subsample_size", m, budget.SubsampleSize, "larger than n_samples"))
	}

	subsample := rng.Perm(n)[:budget.SubsampleSize]
	solver := r.solver
	if solver == nil {
		solver = nystrom.Partial{Seed: rng.Int63()}
	}
	pre, err := Setup(k, centers.Select(subsample), budget.MaxComponents, n, budget.MemoryBatch,
		DampingExponent, solver)
	if err != nil {
		return err
	}

	hp := ResolveHyperparams(n, r.bs, pre.MaxS, pre.Beta)
	if !r.bs.IsAuto() && hp.RequestedBatchSize > hp.BatchSize {
		errors.Warn(errors.NewClampWarning("bs", hp.RequestedBatchSize, hp.BatchSize, "larger than n_samples"))
	}
	r.monitor.ObserveSetup(label, float64(hp.Eta), hp.BatchSize, pre.NComponents)

	logger.Info("setup finished",
		log.PhaseKey, log.PhaseSetup,
		log.SamplesKey, n,
		log.FeaturesKey, d,
		log.TargetsKey, t,
		log.SubsampleSizeKey, budget.SubsampleSize,
		log.MaxComponentsKey, budget.MaxComponents,
		log.MemoryBatchKey, budget.MemoryBatch,
		log.NComponentsKey, pre.NComponents,
		log.TopEigenvalueKey, pre.MaxS,
		log.BetaKey, pre.Beta,
		log.BatchSizeKey, hp.BatchSize,
		log.LearningRateKey, hp.Eta,
	)

	trainer, err := NewTrainer(TrainerConfig{
		Kernel:         k,
		Centers:        centers,
		Targets:        targets,
		Subsample:      subsample,
		Preconditioner: pre,
		Hyperparams:    hp,
		Rand:           rng,
		Callbacks:      r.callbacks,
		Logger:         logger.With(log.PhaseKey, log.PhaseTraining),
		Monitor:        r.monitor,
	})
	if err != nil {
		return err
	}
	coef, err := trainer.Run(r.nEpoch)
	if err != nil {
		return err
	}

	r.state.Set(&fitted{
		kernel:    k,
		centers:   centers,
		coef:      coef,
		subsample: subsample,
		pre:       pre,
		hp:        hp,
		nFeatures: d,
		nTargets:  t,
		was1D:     was1D,
	})

	logger.Info("fit finished",
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict returns K(X, centers)·coef, computed in chunks of the fitted batch
// size. The result is a *mat.VecDense when Fit received a vector and an
// n×t *mat.Dense otherwise.
func (r *FastKernelRegression) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "FastKernelRegression.Predict")

	f, err := r.state.Get(modelName, "Predict")
	if err != nil {
		return nil, err
	}
	if X == nil {
		return nil, errors.ErrEmptyData
	}
	if _, ok := X.(mat.Vector); ok {
		return nil, errors.NewValueError("FastKernelRegression.Predict",
			"Reshape your data. X should be a matrix of shape (n_samples, n_features).")
	}
	rows, cols := X.Dims()
	if cols != f.nFeatures {
		return nil, errors.NewDimensionError("FastKernelRegression.Predict", f.nFeatures, cols, 1)
	}
	if rows == 0 {
		return nil, errors.ErrEmptyData
	}

	start := time.Now()
	out := predictChunks(f.kernel, f.centers, f.coef, kernel.NewPoints(X), f.hp.BatchSize)
	r.monitor.ObservePredict(f.kernel.Name(), time.Since(start), rows)

	if f.was1D {
		return mat.NewVecDense(rows, out.RawMatrix().Data), nil
	}
	return out, nil
}

// Score returns the coefficient of determination R² of the prediction,
// averaged uniformly over targets.
func (r *FastKernelRegression) Score(X, Y mat.Matrix) (float64, error) {
	if _, err := r.state.Get(modelName, "Score"); err != nil {
		return 0, err
	}
	pred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}
	score, err := metrics.R2ScoreMatrix(Y, pred)
	if err != nil {
		return 0, err
	}
	r.getLogger().Debug("score computed", log.OperationKey, log.OperationScore, log.R2ScoreKey, score)
	return score, nil
}

// IsFitted reports whether Fit has succeeded at least once.
func (r *FastKernelRegression) IsFitted() bool { return r.state.IsFitted() }

// Coef returns a copy of the n×t coefficient matrix, or nil before Fit.
func (r *FastKernelRegression) Coef() *mat.Dense {
	f, err := r.state.Get(modelName, "Coef")
	if err != nil {
		return nil
	}
	return mat.DenseCopyOf(f.coef)
}

// SubsampleIndices returns the indices of the Nystrom subsample, or nil
// before Fit.
func (r *FastKernelRegression) SubsampleIndices() []int {
	f, err := r.state.Get(modelName, "SubsampleIndices")
	if err != nil {
		return nil
	}
	return append([]int(nil), f.subsample...)
}

// BatchSize returns the fitted mini-batch size, or 0 before Fit.
func (r *FastKernelRegression) BatchSize() int {
	f, err := r.state.Get(modelName, "BatchSize")
	if err != nil {
		return 0
	}
	return f.hp.BatchSize
}

// StepSize returns the fitted step size eta, or 0 before Fit.
func (r *FastKernelRegression) StepSize() float64 {
	f, err := r.state.Get(modelName, "StepSize")
	if err != nil {
		return 0
	}
	return float64(f.hp.Eta)
}

// Eigenvalues returns the Nystrom eigenvalues in descending order, or nil
// before Fit.
func (r *FastKernelRegression) Eigenvalues() []float64 {
	f, err := r.state.Get(modelName, "Eigenvalues")
	if err != nil {
		return nil
	}
	return append([]float64(nil), f.pre.Eigenvalues...)
}

// NComponents returns the damping rank used by the preconditioner, or 0
// before Fit.
func (r *FastKernelRegression) NComponents() int {
	f, err := r.state.Get(modelName, "NComponents")
	if err != nil {
		return 0
	}
	return f.pre.NComponents
}
