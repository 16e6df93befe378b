package eigenpro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSize(t *testing.T) {
	var zero Size
	assert.True(t, zero.IsAuto())
	assert.Equal(t, "auto", Auto().String())

	s := Fixed(64)
	v, fixed := s.Value()
	assert.True(t, fixed)
	assert.Equal(t, 64, v)
	assert.Equal(t, "64", s.String())
}

func TestSubsampleSize(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		requested Size
		want      int
	}{
		{"auto small dataset", 5000, Auto(), 4000},
		{"auto large dataset", 150000, Auto(), 10000},
		{"auto at cutoff", 100000, Auto(), 10000},
		{"auto clamped to n", 100, Auto(), 100},
		{"fixed", 5000, Fixed(300), 300},
		{"fixed clamped to n", 30, Fixed(50), 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubsampleSize(tt.n, tt.requested))
		})
	}
}

func TestMaxComponents(t *testing.T) {
	assert.Equal(t, 1000, MaxComponents(1000, 4000))
	assert.Equal(t, 99, MaxComponents(1000, 100))
	assert.Equal(t, 1, MaxComponents(0, 10))
	assert.Equal(t, 1, MaxComponents(5, 2))
}

func TestMemoryBatchBound(t *testing.T) {
	// limit = 0.1 GiB - 100 MiB = 2516582.4 bytes; (11 + 3b)·1000·4 stays
	// below it for b <= 206.
	assert.Equal(t, 207, MemoryBatchBound(1000, 10, 1, 4000, 0.1))

	// never more than the subsample
	assert.Equal(t, 500, MemoryBatchBound(1000, 10, 1, 500, 12))

	// a budget below the reserve admits nothing
	assert.Equal(t, 0, MemoryBatchBound(1000, 10, 1, 500, 0.05))
}

func TestPlanBudget(t *testing.T) {
	b := PlanBudget(2000, 20, 3, Auto(), 1000, 12)
	assert.Equal(t, 2000, b.SubsampleSize)
	assert.Equal(t, 1000, b.MaxComponents)
	assert.Equal(t, 2000, b.MemoryBatch)

	b = PlanBudget(200, 5, 1, Fixed(50), 1000, 12)
	assert.Equal(t, 50, b.SubsampleSize)
	assert.Equal(t, 49, b.MaxComponents)
}

func TestResolveHyperparams(t *testing.T) {
	// maxS and beta are exact in float32 so the critical size is exactly 4.
	const maxS, beta = float32(0.25), float32(0.75)

	tests := []struct {
		name          string
		n             int
		bs            Size
		wantBatch     int
		wantRequested int
		wantEta       float64
	}{
		{"auto at the critical size", 100, Auto(), 4, 4, 2 * 4 / (0.75 + 3*0.25)},
		{"below critical", 100, Fixed(2), 2, 2, 2 / 0.75},
		{"between critical and n", 100, Fixed(10), 10, 10, 2 * 10 / (0.75 + 9*0.25)},
		{"full batch", 100, Fixed(100), 100, 100, 0.95 * 2 / 0.25},
		{"clamped to n", 100, Fixed(500), 100, 500, 0.95 * 2 / 0.25},
		{"auto clamped to n stays below critical before full batch", 3, Auto(), 3, 4, 3 / 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hp := ResolveHyperparams(tt.n, tt.bs, maxS, beta)
			assert.Equal(t, tt.wantBatch, hp.BatchSize)
			assert.Equal(t, tt.wantRequested, hp.RequestedBatchSize)
			assert.Equal(t, 4.0, hp.Critical)
			assert.Equal(t, float32(tt.wantEta), hp.Eta)
			assert.Equal(t, float32(float64(hp.Eta)/float64(hp.BatchSize)), hp.Step)
		})
	}
}

func TestResolveHyperparamsTruncatesAutoBatch(t *testing.T) {
	hp := ResolveHyperparams(1000, Auto(), 0.25, 0.875)
	assert.Equal(t, 4.5, hp.Critical)
	assert.Equal(t, 4, hp.BatchSize)
	assert.InDelta(t, 4/0.875, float64(hp.Eta), 1e-6)
}

func TestResolveHyperparamsContinuousAtCritical(t *testing.T) {
	// At bs = beta/maxS + 1 the second regime gives bs/beta, the value the
	// first regime would give.
	at := ResolveHyperparams(1000, Fixed(3), 0.25, 0.5)
	assert.Equal(t, 3.0, at.Critical)
	assert.InDelta(t, 3/0.5, float64(at.Eta), 1e-6)

	below := ResolveHyperparams(1000, Fixed(2), 0.25, 0.5)
	assert.InDelta(t, 2/0.5, float64(below.Eta), 1e-6)
}

func TestResolveHyperparamsStepGrowsWithBatch(t *testing.T) {
	prev := float32(0)
	for _, bs := range []int{1, 2, 8, 32, 128, 512} {
		hp := ResolveHyperparams(1000, Fixed(bs), 0.01, 0.9)
		assert.Greater(t, hp.Eta, prev, "bs=%d", bs)
		prev = hp.Eta
	}
}
