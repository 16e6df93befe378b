package eigenpro

// DampingExponent is the power applied to eigenvalue ratios when building
// the preconditioner.
const DampingExponent = 0.9

const (
	smallSubsample     = 4000
	largeSubsample     = 10000
	largeDatasetCutoff = 100000

	memoryReserveBytes = 100 * 1024 * 1024
	bytesPerElement    = 4
)

// Budget holds the sizes fixed before the eigensystem is built.
type Budget struct {
	// SubsampleSize is the number of Nystrom points m.
	SubsampleSize int
	// MaxComponents is the number of eigenpairs requested, in [1, m−1]
	// whenever m ≥ 2.
	MaxComponents int
	// MemoryBatch is the largest batch size whose working set fits in the
	// memory budget.
	MemoryBatch int
}

// PlanBudget derives the subsample size, the eigenpair count and the memory
// bound for n samples of dimension d with t targets.
func PlanBudget(n, d, t int, subsample Size, nComponents int, memGB float64) Budget {
	m := SubsampleSize(n, subsample)
	return Budget{
		SubsampleSize: m,
		MaxComponents: MaxComponents(nComponents, m),
		MemoryBatch:   MemoryBatchBound(n, d, t, m, memGB),
	}
}

// SubsampleSize resolves the Nystrom subsample size for n samples. Auto is
// 4000 below 100000 samples and 10000 otherwise. The result never exceeds n.
func SubsampleSize(n int, requested Size) int {
	m, fixed := requested.Value()
	if !fixed {
		m = smallSubsample
		if n >= largeDatasetCutoff {
			m = largeSubsample
		}
	}
	if m > n {
		m = n
	}
	return m
}

// MaxComponents clamps the requested eigenpair count to [1, subsample−1].
func MaxComponents(requested, subsample int) int {
	k := requested
	if k > subsample-1 {
		k = subsample - 1
	}
	if k < 1 {
		k = 1
	}
	return k
}

// MemoryBatchBound counts the batch sizes b in [0, subsample) whose
// estimated working set (d + t + 3b)·n·4 bytes stays below the budget of
// memGB gibibytes less a 100 MiB reserve.
func MemoryBatchBound(n, d, t, subsample int, memGB float64) int {
	limit := memGB*(1<<30) - memoryReserveBytes
	count := 0
	for b := 0; b < subsample; b++ {
		usage := float64(d+t+3*b) * float64(n) * bytesPerElement
		if usage >= limit {
			// usage grows with b
			break
		}
		count++
	}
	return count
}

// Hyperparams are the batch and step sizes used by the trainer.
type Hyperparams struct {
	// BatchSize is the mini-batch size after clamping to n.
	BatchSize int
	// RequestedBatchSize is the explicit or derived size before clamping.
	RequestedBatchSize int
	// Critical is beta/maxS + 1, the batch size above which the step no
	// longer grows linearly.
	Critical float64
	// Eta is the step size for a whole batch.
	Eta float32
	// Step is Eta divided by BatchSize, the per-sample step.
	Step float32
}

// ResolveHyperparams picks the batch size and step size for n samples given
// the normalized top eigenvalue maxS and the worst-case self kernel beta of
// the preconditioned operator.
//
// An automatic batch size is beta/maxS + 1 truncated to an integer. The step
// size follows three regimes: bs/beta below the critical batch size,
// 2·bs/(beta + (bs−1)·maxS) up to n, and 0.95·2/maxS for a full batch.
func ResolveHyperparams(n int, bs Size, maxS, beta float32) Hyperparams {
	critical := float64(beta/maxS + 1)

	requested, fixed := bs.Value()
	if !fixed {
		requested = int(critical)
	}
	size := requested
	if size > n {
		size = n
	}
	if size < 1 {
		size = 1
	}

	b := float64(size)
	var eta float64
	switch {
	case b < critical:
		eta = b / float64(beta)
	case size < n:
		eta = 2 * b / (float64(beta) + (b-1)*float64(maxS))
	default:
		eta = 0.95 * 2 / float64(maxS)
	}
	eta32 := float32(eta)

	return Hyperparams{
		BatchSize:          size,
		RequestedBatchSize: requested,
		Critical:           critical,
		Eta:                eta32,
		Step:               float32(float64(eta32) / b),
	}
}
