package eigenpro

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/eigenpro/core/model"
	"github.com/YuminosukeSato/eigenpro/datasets"
	"github.com/YuminosukeSato/eigenpro/kernel"
	"github.com/YuminosukeSato/eigenpro/metrics"
	"github.com/YuminosukeSato/eigenpro/pkg/errors"
	"github.com/YuminosukeSato/eigenpro/pkg/log"
	"github.com/YuminosukeSato/eigenpro/pkg/monitor"
)

func smallModel(opts ...Option) *FastKernelRegression {
	base := []Option{WithBandwidth(1), WithNEpoch(2), WithRandomState(1)}
	return NewFastKernelRegression(append(base, opts...)...)
}

func TestImplementsRegressor(t *testing.T) {
	var r model.Regressor = NewFastKernelRegression()
	assert.NotNil(t, r)
}

func TestFitPredictMatrixTargets(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(60, 3, 2, 0, 1)
	m := smallModel()
	require.NoError(t, m.Fit(X, Y))
	assert.True(t, m.IsFitted())

	pred, err := m.Predict(X)
	require.NoError(t, err)
	dense, ok := pred.(*mat.Dense)
	require.True(t, ok)
	r, c := dense.Dims()
	assert.Equal(t, 60, r)
	assert.Equal(t, 2, c)
	assert.Zero(t, errors.CountNonFinite(dense))

	coef := m.Coef()
	r, c = coef.Dims()
	assert.Equal(t, 60, r)
	assert.Equal(t, 2, c)
}

func TestFitPredictVectorTargets(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(60, 3, 1, 0, 2)
	y := mat.NewVecDense(60, mat.Col(nil, 0, Y))

	m := smallModel()
	require.NoError(t, m.Fit(X, y))

	Xnew, _, _ := datasets.MakeSmoothRegression(7, 3, 1, 0, 3)
	pred, err := m.Predict(Xnew)
	require.NoError(t, err)
	vec, ok := pred.(*mat.VecDense)
	require.True(t, ok, "vector targets give vector predictions")
	assert.Equal(t, 7, vec.Len())
}

func TestPredictMatchesKernelExpansion(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(50, 4, 1, 0, 4)
	m := smallModel(WithBatchSize(7))
	require.NoError(t, m.Fit(X, Y))

	Xnew, _, _ := datasets.MakeSmoothRegression(23, 4, 1, 0, 5)
	pred, err := m.Predict(Xnew)
	require.NoError(t, err)

	var want mat.Dense
	want.Mul(kernel.Evaluate(kernel.Gaussian{Bandwidth: 1}, Xnew, X), m.Coef())
	assert.True(t, mat.EqualApprox(pred, &want, 1e-9))
}

func TestZeroEpochsPredictsZero(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(40, 3, 2, 0, 1)
	m := smallModel(WithNEpoch(0))
	require.NoError(t, m.Fit(X, Y))

	assert.Zero(t, mat.Norm(m.Coef(), 1))
	pred, err := m.Predict(X)
	require.NoError(t, err)
	assert.Zero(t, mat.Norm(pred, 1))
}

func TestFixedSeedIsReproducible(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(80, 3, 1, 0.1, 6)

	a := smallModel(WithRandomState(42), WithSubsampleSize(30))
	b := smallModel(WithRandomState(42), WithSubsampleSize(30))
	require.NoError(t, a.Fit(X, Y))
	require.NoError(t, b.Fit(X, Y))

	assert.Equal(t, a.SubsampleIndices(), b.SubsampleIndices())
	assert.True(t, mat.Equal(a.Coef(), b.Coef()))

	c := smallModel(WithRandomState(43), WithSubsampleSize(30))
	require.NoError(t, c.Fit(X, Y))
	assert.NotEqual(t, a.SubsampleIndices(), c.SubsampleIndices())
}

func TestSubsampleIndices(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(60, 3, 1, 0, 1)

	m := smallModel(WithSubsampleSize(20))
	require.NoError(t, m.Fit(X, Y))
	idx := m.SubsampleIndices()
	require.Len(t, idx, 20)
	seen := map[int]bool{}
	for _, i := range idx {
		assert.True(t, i >= 0 && i < 60)
		assert.False(t, seen[i], "index %d repeated", i)
		seen[i] = true
	}
	assert.Len(t, m.Eigenvalues(), 19)
	assert.Less(t, m.NComponents(), 19)

	// larger than n is clamped
	m = smallModel(WithSubsampleSize(500))
	require.NoError(t, m.Fit(X, Y))
	assert.Len(t, m.SubsampleIndices(), 60)
}

func TestSinglePointSubsample(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(30, 3, 1, 0, 1)

	m := smallModel(WithSubsampleSize(1))
	require.NoError(t, m.Fit(X, Y))
	assert.Len(t, m.SubsampleIndices(), 1)
	assert.Len(t, m.Eigenvalues(), 1)
	assert.Equal(t, 0, m.NComponents())

	pred, err := m.Predict(X)
	require.NoError(t, err)
	r, c := pred.Dims()
	assert.Equal(t, 30, r)
	assert.Equal(t, 1, c)
}

func TestEigenvaluesDescending(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(60, 3, 1, 0, 1)
	m := smallModel(WithNComponents(10))
	require.NoError(t, m.Fit(X, Y))

	ev := m.Eigenvalues()
	require.Len(t, ev, 10)
	for i := 1; i < len(ev); i++ {
		assert.GreaterOrEqual(t, ev[i-1], ev[i])
	}
	assert.GreaterOrEqual(t, ev[len(ev)-1], float64(1e-7)*0.999)
}

func TestExplicitBatchSizeClampedToSamples(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(30, 3, 1, 0, 1)
	m := smallModel(WithBatchSize(1000))
	require.NoError(t, m.Fit(X, Y))
	assert.Equal(t, 30, m.BatchSize())
	assert.Greater(t, m.StepSize(), 0.0)
}

func TestUnfittedModel(t *testing.T) {
	m := NewFastKernelRegression()
	assert.False(t, m.IsFitted())

	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	_, err := m.Predict(X)
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "FastKernelRegression", nf.ModelName)
	assert.Equal(t, "Predict", nf.Method)

	_, err = m.Score(X, mat.NewVecDense(3, nil))
	assert.True(t, errors.As(err, &nf))

	assert.Nil(t, m.Coef())
	assert.Nil(t, m.SubsampleIndices())
	assert.Nil(t, m.Eigenvalues())
	assert.Zero(t, m.BatchSize())
	assert.Zero(t, m.StepSize())
	assert.Zero(t, m.NComponents())
}

func TestPredictInputErrors(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(40, 3, 1, 0, 1)
	m := smallModel()
	require.NoError(t, m.Fit(X, Y))

	_, err := m.Predict(mat.NewVecDense(3, []float64{1, 2, 3}))
	var ve *errors.ValueError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, err.Error(), "Reshape your data")

	_, err = m.Predict(mat.NewDense(2, 4, nil))
	var de *errors.DimensionError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 1, de.Axis)
	assert.Equal(t, 3, de.Expected)
	assert.Equal(t, 4, de.Got)

	_, err = m.Predict(nil)
	assert.ErrorIs(t, err, errors.ErrEmptyData)
}

func TestFitInputErrors(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(10, 2, 1, 0, 1)

	tests := []struct {
		name  string
		model *FastKernelRegression
		X, Y  mat.Matrix
		param string
	}{
		{"too few samples", smallModel(), X.Slice(0, 2, 0, 2), Y.Slice(0, 2, 0, 1), "n_samples"},
		{"zero batch", smallModel(WithBatchSize(0)), X, Y, "bs"},
		{"zero subsample", smallModel(WithSubsampleSize(0)), X, Y, "subsample_size"},
		{"negative epochs", smallModel(WithNEpoch(-1)), X, Y, "n_epoch"},
		{"zero components", smallModel(WithNComponents(0)), X, Y, "n_components"},
		{"negative memory", smallModel(WithMemGB(-1)), X, Y, "mem_gb"},
		{"zero bandwidth", smallModel(WithBandwidth(0)), X, Y, "bandwidth"},
		{"unknown kernel", smallModel(WithKernelName("nope")), X, Y, "kernel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Fit(tt.X, tt.Y)
			var ve *errors.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.param, ve.ParamName)
			assert.False(t, tt.model.IsFitted())
		})
	}

	m := smallModel()
	err := m.Fit(X.Slice(0, 2, 0, 2), Y.Slice(0, 2, 0, 1))
	assert.True(t, errors.Is(err, errors.ErrTooFewSamples))

	err = m.Fit(X, mat.NewDense(9, 1, nil))
	var de *errors.DimensionError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 0, de.Axis)

	bad := mat.DenseCopyOf(X)
	bad.Set(3, 1, math.NaN())
	assert.Error(t, m.Fit(bad, Y))

	assert.ErrorIs(t, m.Fit(nil, Y), errors.ErrEmptyData)
}

func TestCallbackErrorKeepsPreviousModel(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(40, 3, 1, 0, 1)
	m := smallModel()
	require.NoError(t, m.Fit(X, Y))
	before := m.Coef()

	stop := errors.New("enough")
	WithCallbacks(func(*EpochEnv) error { return stop })(m)

	X2, Y2, _ := datasets.MakeSmoothRegression(50, 3, 1, 0, 2)
	err := m.Fit(X2, Y2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, stop))
	assert.True(t, mat.Equal(before, m.Coef()))

	fresh := smallModel(WithCallbacks(func(*EpochEnv) error { return stop }))
	require.Error(t, fresh.Fit(X, Y))
	assert.False(t, fresh.IsFitted())
}

func TestRefitReplacesState(t *testing.T) {
	X1, Y1, _ := datasets.MakeSmoothRegression(40, 3, 1, 0, 1)
	X2, Y2, _ := datasets.MakeSmoothRegression(55, 5, 2, 0, 2)

	m := smallModel()
	require.NoError(t, m.Fit(X1, Y1))
	require.NoError(t, m.Fit(X2, Y2))

	r, c := m.Coef().Dims()
	assert.Equal(t, 55, r)
	assert.Equal(t, 2, c)

	_, err := m.Predict(X1)
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))
}

func TestRecordLossCallback(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(120, 4, 1, 0, 7)
	var loss []float64
	var epochs []EpochRecord
	m := smallModel(
		WithNEpoch(4),
		WithCallbacks(RecordLoss(X, Y, &loss), RecordEpochs(&epochs)),
	)
	require.NoError(t, m.Fit(X, Y))

	require.Len(t, loss, 4)
	require.Len(t, epochs, 4)
	for _, v := range loss {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
	initial := stat.Variance(mat.Col(nil, 0, Y), nil) + math.Pow(stat.Mean(mat.Col(nil, 0, Y), nil), 2)
	assert.Less(t, loss[len(loss)-1], initial)

	pred, err := m.Predict(X)
	require.NoError(t, err)
	final, err := metrics.MSEMatrix(Y, pred)
	require.NoError(t, err)
	assert.InDelta(t, loss[3], final, 1e-9)
}

func TestScore(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(200, 3, 1, 0, 8)
	m := smallModel(WithNEpoch(5))
	require.NoError(t, m.Fit(X, Y))

	score, err := m.Score(X, Y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestKernelChoices(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(50, 3, 1, 0, 9)

	tests := []struct {
		name  string
		opts  []Option
		label string
	}{
		{"laplace", []Option{WithKernelName("laplace")}, "laplace"},
		{"cauchy", []Option{WithKernelName("cauchy")}, "cauchy"},
		{"rbf", []Option{WithKernelName("rbf"), WithGamma(0.5)}, "rbf"},
		{"kernel value", []Option{WithKernel(kernel.Laplace{Bandwidth: 2})}, "laplace"},
		{"function", []Option{
			WithKernelFunc("my_rbf", func(x, y []float64, p map[string]interface{}) float64 {
				d := floats.Distance(x, y, 2)
				return math.Exp(-d * d * p["scale"].(float64))
			}),
			WithKernelParams(map[string]interface{}{"scale": 0.5}),
		}, "my_rbf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			mon := monitor.NewCollector(reg)
			m := smallModel(append(tt.opts, WithMonitor(mon))...)
			require.NoError(t, m.Fit(X, Y))
			assert.Equal(t, tt.label, m.GetParams()["kernel"])

			pred, err := m.Predict(X)
			require.NoError(t, err)
			assert.Zero(t, errors.CountNonFinite(pred))
			assert.Equal(t, 1.0, testutil.ToFloat64(mon.FitsTotal.WithLabelValues(tt.label, "success")))
		})
	}
}

func TestGetParamsDefaults(t *testing.T) {
	p := NewFastKernelRegression().GetParams()
	assert.Equal(t, "auto", p["bs"])
	assert.Equal(t, 1, p["n_epoch"])
	assert.Equal(t, 1000, p["n_components"])
	assert.Equal(t, "auto", p["subsample_size"])
	assert.Equal(t, 12.0, p["mem_gb"])
	assert.Equal(t, "gaussian", p["kernel"])
	assert.Equal(t, 5.0, p["bandwidth"])
	assert.Nil(t, p["gamma"])
	assert.Equal(t, 3.0, p["degree"])
	assert.Equal(t, 1.0, p["coef0"])
	assert.Nil(t, p["random_state"])
}

func TestSetParams(t *testing.T) {
	m := NewFastKernelRegression()
	require.NoError(t, m.SetParams(map[string]interface{}{
		"bs":             64,
		"subsample_size": 100.0,
		"n_epoch":        3,
		"kernel":         "laplace",
		"bandwidth":      2,
		"gamma":          0.25,
		"random_state":   int64(7),
	}))

	p := m.GetParams()
	assert.Equal(t, 64, p["bs"])
	assert.Equal(t, 100, p["subsample_size"])
	assert.Equal(t, 3, p["n_epoch"])
	assert.Equal(t, "laplace", p["kernel"])
	assert.Equal(t, 2.0, p["bandwidth"])
	assert.Equal(t, 0.25, p["gamma"])
	assert.Equal(t, int64(7), p["random_state"])

	require.NoError(t, m.SetParams(map[string]interface{}{"bs": "auto", "gamma": nil}))
	p = m.GetParams()
	assert.Equal(t, "auto", p["bs"])
	assert.Nil(t, p["gamma"])
}

func TestSetParamsRejectsAndKeepsState(t *testing.T) {
	m := NewFastKernelRegression(WithNEpoch(4))

	err := m.SetParams(map[string]interface{}{"n_epoch": 9, "learning_rate": 0.1})
	var ve *errors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "learning_rate", ve.ParamName)
	assert.Equal(t, 4, m.GetParams()["n_epoch"])

	assert.Error(t, m.SetParams(map[string]interface{}{"bs": 1.5}))
	assert.Error(t, m.SetParams(map[string]interface{}{"bs": "big"}))
	assert.Error(t, m.SetParams(map[string]interface{}{"bandwidth": "wide"}))
	assert.Error(t, m.SetParams(map[string]interface{}{"kernel": 3}))
	assert.Equal(t, "auto", m.GetParams()["bs"])
}

func TestSetParamsKeepsFittedModel(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(40, 3, 1, 0, 1)
	m := smallModel()
	require.NoError(t, m.Fit(X, Y))
	require.NoError(t, m.SetParams(map[string]interface{}{"bandwidth": 3.0}))
	assert.True(t, m.IsFitted())
}

func TestFitLogging(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(40, 3, 1, 0, 1)
	logger, _ := log.NewTestLogger(log.LevelDebug)
	m := smallModel(WithLogger(logger), WithNEpoch(2))
	require.NoError(t, m.Fit(X, Y))

	assert.True(t, logger.ContainsMessage("setup finished"))
	assert.True(t, logger.ContainsMessage("epoch finished"))
	assert.True(t, logger.ContainsMessage("fit finished"))
	assert.True(t, logger.ContainsField(log.KernelKey, "gaussian"))
	assert.True(t, logger.ContainsField(log.SamplesKey, float64(40)))
	assert.True(t, logger.ContainsField(log.PhaseKey, log.PhaseTraining))
	assert.True(t, logger.ContainsField(log.BatchSizeKey, float64(m.BatchSize())))

	entries, err := logger.Entries()
	require.NoError(t, err)
	epochs := 0
	for _, e := range entries {
		if e["message"] == "epoch finished" {
			epochs++
		}
	}
	assert.Equal(t, 2, epochs)
}

func TestLogEpochsCallback(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(40, 3, 1, 0, 1)
	logger, _ := log.NewTestLogger(log.LevelInfo)
	m := smallModel(WithNEpoch(5), WithCallbacks(LogEpochs(logger, 2)))
	require.NoError(t, m.Fit(X, Y))

	entries, err := logger.Entries()
	require.NoError(t, err)
	var logged []float64
	for _, e := range entries {
		logged = append(logged, e[log.EpochKey].(float64))
	}
	assert.Equal(t, []float64{2, 4, 5}, logged)
}

func TestMonitorRecordsFitAndPredict(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(40, 3, 1, 0, 1)
	reg := prometheus.NewRegistry()
	mon := monitor.NewCollector(reg)
	m := smallModel(WithMonitor(mon), WithNEpoch(3), WithBatchSize(6))

	require.NoError(t, m.Fit(X, Y))
	_, err := m.Predict(X.Slice(0, 11, 0, 3))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(mon.FitsTotal.WithLabelValues("gaussian", "success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(mon.EpochsTotal.WithLabelValues("gaussian")))
	assert.Equal(t, float64(3*(40/6)), testutil.ToFloat64(mon.BatchesTotal.WithLabelValues("gaussian")))
	assert.Equal(t, 6.0, testutil.ToFloat64(mon.BatchSize.WithLabelValues("gaussian")))
	assert.InDelta(t, m.StepSize(), testutil.ToFloat64(mon.StepSize.WithLabelValues("gaussian")), 1e-9)
	assert.Equal(t, float64(m.NComponents()), testutil.ToFloat64(mon.NComponents.WithLabelValues("gaussian")))
	assert.Equal(t, 11.0, testutil.ToFloat64(mon.PredictedRows.WithLabelValues("gaussian")))

	bad := smallModel(WithMonitor(mon))
	require.Error(t, bad.Fit(X.Slice(0, 2, 0, 3), Y.Slice(0, 2, 0, 1)))
	assert.Equal(t, 1.0, testutil.ToFloat64(mon.FitsTotal.WithLabelValues("gaussian", "error")))
}

func TestConcurrentPredict(t *testing.T) {
	X, Y, _ := datasets.MakeSmoothRegression(60, 3, 1, 0, 1)
	m := smallModel()
	require.NoError(t, m.Fit(X, Y))
	want, err := m.Predict(X)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]mat.Matrix, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = m.Predict(X)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		require.NotNil(t, got)
		assert.True(t, mat.Equal(want, got))
	}
}

// plainGradientMSE trains with the same kernel, subsample and batch size but
// a rank-zero preconditioner, which is mini-batch gradient descent with its
// own stable step size, and returns the training error.
func plainGradientMSE(t *testing.T, X, Y *mat.Dense, subsample, bs, nEpoch int, seed int64) float64 {
	t.Helper()
	n, _ := X.Dims()
	k := kernel.Gaussian{Bandwidth: 1}
	centers := kernel.NewPoints(X)
	rng := rand.New(rand.NewSource(seed))

	sub := rng.Perm(n)[:subsample]
	pre, err := Setup(k, centers.Select(sub), MaxComponents(1000, subsample), n, 1, DampingExponent, nil)
	require.NoError(t, err)
	require.Equal(t, 0, pre.NComponents)

	hp := ResolveHyperparams(n, Fixed(bs), pre.MaxS, pre.Beta)
	tr, err := NewTrainer(TrainerConfig{
		Kernel:         k,
		Centers:        centers,
		Targets:        Y,
		Subsample:      sub,
		Preconditioner: pre,
		Hyperparams:    hp,
		Rand:           rng,
	})
	require.NoError(t, err)
	coef, err := tr.Run(nEpoch)
	require.NoError(t, err)

	mse, err := metrics.MSEMatrix(Y, predictChunks(k, centers, coef, centers, bs))
	require.NoError(t, err)
	if math.IsNaN(mse) || math.IsInf(mse, 0) {
		return math.Inf(1)
	}
	return mse
}

func compareWithPlainGradient(t *testing.T, n, d, targets, subsample int) {
	X, Y, _ := datasets.MakeSmoothRegression(n, d, targets, 0, 1)

	m := NewFastKernelRegression(
		WithBandwidth(1),
		WithNEpoch(3),
		WithSubsampleSize(subsample),
		WithRandomState(1),
	)
	require.NoError(t, m.Fit(X, Y))
	pred, err := m.Predict(X)
	require.NoError(t, err)
	eigenMSE, err := metrics.MSEMatrix(Y, pred)
	require.NoError(t, err)

	baseMSE := plainGradientMSE(t, X, Y, subsample, m.BatchSize(), 3, 1)
	t.Logf("eigenpro mse=%.5f plain mse=%.5f bs=%d components=%d", eigenMSE, baseMSE, m.BatchSize(), m.NComponents())

	assert.Greater(t, m.NComponents(), 0)
	assert.Less(t, eigenMSE, baseMSE)

	// One pass without the correction at EigenPro's own step size.
	f, err := m.state.Get(modelName, "test")
	require.NoError(t, err)
	tr, err := NewTrainer(TrainerConfig{
		Kernel:         f.kernel,
		Centers:        f.centers,
		Targets:        Y,
		Preconditioner: &Preconditioner{},
		Hyperparams:    f.hp,
		Rand:           rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)
	coef, err := tr.Run(1)
	require.NoError(t, err)
	onePass, err := metrics.MSEMatrix(Y, predictChunks(f.kernel, f.centers, coef, f.centers, f.hp.BatchSize))
	require.NoError(t, err)
	if math.IsNaN(onePass) {
		onePass = math.Inf(1)
	}
	t.Logf("single uncorrected pass mse=%g", onePass)
	assert.Less(t, eigenMSE*10, onePass)

	score, err := m.Score(X, Y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.0)
}

func TestEigenProOutperformsPlainGradient(t *testing.T) {
	compareWithPlainGradient(t, 600, 10, 2, 300)
}

func TestEigenProOutperformsPlainGradientFullSize(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 4000-sample comparison in short mode")
	}
	compareWithPlainGradient(t, 4000, 20, 3, 4000)
}
