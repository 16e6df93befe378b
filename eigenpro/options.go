package eigenpro

import (
	"github.com/YuminosukeSato/eigenpro/kernel"
	"github.com/YuminosukeSato/eigenpro/nystrom"
	"github.com/YuminosukeSato/eigenpro/pkg/log"
	"github.com/YuminosukeSato/eigenpro/pkg/monitor"
)

// Option configures a FastKernelRegression.
type Option func(*FastKernelRegression)

// WithBatchSize fixes the mini-batch size. Values above n are clamped at Fit.
func WithBatchSize(bs int) Option {
	return func(r *FastKernelRegression) {
		r.bs = Fixed(bs)
	}
}

// WithAutoBatchSize derives the batch size from the eigensystem (default).
func WithAutoBatchSize() Option {
	return func(r *FastKernelRegression) {
		r.bs = Auto()
	}
}

// WithNEpoch sets the number of passes over the training data. Zero leaves
// the coefficients at zero.
func WithNEpoch(n int) Option {
	return func(r *FastKernelRegression) {
		r.nEpoch = n
	}
}

// WithNComponents sets the maximum number of eigendirections used by the
// preconditioner. The speedup over plain gradient descent is roughly the
// ratio of the largest to the n-th eigenvalue.
func WithNComponents(n int) Option {
	return func(r *FastKernelRegression) {
		r.nComponents = n
	}
}

// WithSubsampleSize fixes the number of Nystrom subsample points.
func WithSubsampleSize(m int) Option {
	return func(r *FastKernelRegression) {
		r.subsampleSize = Fixed(m)
	}
}

// WithAutoSubsampleSize uses 4000 points below 100000 samples and 10000
// otherwise (default).
func WithAutoSubsampleSize() Option {
	return func(r *FastKernelRegression) {
		r.subsampleSize = Auto()
	}
}

// WithMemGB sets the memory budget in GiB used to bound the batch size.
func WithMemGB(gb float64) Option {
	return func(r *FastKernelRegression) {
		r.memGB = gb
	}
}

// WithKernel uses k directly. It takes precedence over WithKernelName.
func WithKernel(k kernel.Kernel) Option {
	return func(r *FastKernelRegression) {
		r.kernel = k
	}
}

// WithKernelName selects a kernel by name: gaussian, laplace, cauchy, or any
// of kernel.NamedKernels().
func WithKernelName(name string) Option {
	return func(r *FastKernelRegression) {
		r.kernelName = name
		r.kernel = nil
		r.kernelFunc = nil
	}
}

// WithKernelFunc uses a user function, called with the map given to
// WithKernelParams.
func WithKernelFunc(name string, fn kernel.Func) Option {
	return func(r *FastKernelRegression) {
		r.kernelName = name
		r.kernelFunc = fn
		r.kernel = nil
	}
}

// WithBandwidth sets the bandwidth of the gaussian, laplace and cauchy
// kernels.
func WithBandwidth(bw float64) Option {
	return func(r *FastKernelRegression) {
		r.bandwidth = bw
	}
}

// WithGamma sets gamma for rbf, polynomial, sigmoid, laplacian and chi2.
func WithGamma(gamma float64) Option {
	return func(r *FastKernelRegression) {
		r.gamma = &gamma
	}
}

// WithDegree sets the polynomial degree.
func WithDegree(degree float64) Option {
	return func(r *FastKernelRegression) {
		r.degree = degree
	}
}

// WithCoef0 sets the constant term of the polynomial and sigmoid kernels.
func WithCoef0(coef0 float64) Option {
	return func(r *FastKernelRegression) {
		r.coef0 = coef0
	}
}

// WithKernelParams sets the parameters passed to a WithKernelFunc kernel.
func WithKernelParams(params map[string]interface{}) Option {
	return func(r *FastKernelRegression) {
		r.kernelParams = params
	}
}

// WithRandomState seeds subsampling and batch order. Without it every Fit
// uses a time-based seed.
func WithRandomState(seed int64) Option {
	return func(r *FastKernelRegression) {
		r.randomState = &seed
	}
}

// WithEigenSolver selects the eigensolver for the Nystrom step. The default
// is nystrom.Partial seeded from the random state.
func WithEigenSolver(s nystrom.Solver) Option {
	return func(r *FastKernelRegression) {
		r.solver = s
	}
}

// WithCallbacks adds epoch callbacks.
func WithCallbacks(cbs ...Callback) Option {
	return func(r *FastKernelRegression) {
		r.callbacks = append(r.callbacks, cbs...)
	}
}

// WithLogger replaces the default "eigenpro" logger.
func WithLogger(l log.Logger) Option {
	return func(r *FastKernelRegression) {
		r.logger = l
	}
}

// WithMonitor records fit and predict metrics on c.
func WithMonitor(c *monitor.Collector) Option {
	return func(r *FastKernelRegression) {
		r.monitor = c
	}
}
