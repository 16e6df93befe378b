package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type, e.g. "FastKernelRegression".
	ModelNameKey = "model.name"

	// OperationKey is the estimator operation: "fit", "predict", "score".
	OperationKey = "ml.operation"

	// ComponentKey names the package or stage doing the work.
	ComponentKey = "ml.component"

	// PhaseKey is the lifecycle phase: "setup", "training", "inference".
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey   = "data.samples"
	FeaturesKey  = "data.features"
	TargetsKey   = "data.targets"
	BatchSizeKey = "data.batch_size"
)

// Performance and progress.
const (
	DurationMsKey = "perf.duration_ms"
	LossKey       = "metrics.loss"
	R2ScoreKey    = "metrics.r2_score"
	EpochKey      = "training.epoch"
	BatchesKey    = "training.batches"
	PredsKey      = "preds.count"
)

// Configuration.
const (
	KernelKey       = "config.kernel"
	BandwidthKey    = "config.bandwidth"
	RandomSeedKey   = "config.random_seed"
	LearningRateKey = "hyperparams.learning_rate"
)

// EigenPro setup statistics.
const (
	// SubsampleSizeKey is the number of Nystrom subsample points (m).
	SubsampleSizeKey = "eigenpro.subsample_size"

	// NComponentsKey is the damping rank actually used by the preconditioner.
	NComponentsKey = "eigenpro.n_components"

	// MaxComponentsKey is the number of eigenpairs requested from the Nystrom step.
	MaxComponentsKey = "eigenpro.max_components"

	// TopEigenvalueKey is the normalized largest eigenvalue after damping.
	TopEigenvalueKey = "eigenpro.max_s"

	// BetaKey is the worst-case self kernel value of the modified operator.
	BetaKey = "eigenpro.beta"

	// MemoryBatchKey is the largest batch size that fits the memory budget.
	MemoryBatchKey = "eigenpro.memory_batch"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	StacktraceKey = "error.stacktrace"
)

// Standard values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"

	PhaseSetup     = "setup"
	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidInput      = "INVALID_INPUT"
)
