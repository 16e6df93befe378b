package eigenpro

import (
	"fmt"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eigenpro/kernel"
	"github.com/YuminosukeSato/eigenpro/pkg/errors"
	"github.com/YuminosukeSato/eigenpro/pkg/log"
	"github.com/YuminosukeSato/eigenpro/pkg/monitor"
)

// State is the lifecycle stage of a Trainer.
type State int

const (
	// Idle is the zero Trainer, before hyperparameters are set up.
	Idle State = iota
	// Initialized means the eigensystem and step sizes are ready.
	Initialized
	// Training means epochs are running.
	Training
	// Fitted is terminal: the coefficients are final.
	Fitted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Initialized:
		return "initialized"
	case Training:
		return "training"
	case Fitted:
		return "fitted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// TrainerConfig holds everything the training loop reads.
type TrainerConfig struct {
	Kernel kernel.Kernel
	// Centers are the n training points. Their squared norms are cached on
	// first use and reused by every batch.
	Centers *kernel.Points
	// Targets is n×t.
	Targets mat.Matrix
	// Subsample holds the m distinct indices the preconditioner was built on.
	Subsample      []int
	Preconditioner *Preconditioner
	Hyperparams    Hyperparams
	Rand           *rand.Rand

	Callbacks []Callback
	Logger    log.Logger
	Monitor   *monitor.Collector
}

// Trainer runs mini-batch EigenPro iterations on a coefficient matrix.
// Batches are applied strictly one after another.
type Trainer struct {
	cfg   TrainerConfig
	coef  *mat.Dense
	state State

	// per-batch scratch, reused while the batch size is unchanged
	grad *mat.Dense
	kSub *mat.Dense
}

// NewTrainer returns an Initialized trainer with zero coefficients.
func NewTrainer(cfg TrainerConfig) (*Trainer, error) {
	n, _ := cfg.Centers.Dims()
	tn, t := cfg.Targets.Dims()
	if tn != n {
		return nil, errors.NewDimensionError("eigenpro.NewTrainer", n, tn, 0)
	}
	if cfg.Hyperparams.BatchSize < 1 || cfg.Hyperparams.BatchSize > n {
		return nil, errors.NewValidationError("bs", "must be in [1, n_samples]", cfg.Hyperparams.BatchSize)
	}
	if cfg.Preconditioner == nil {
		return nil, errors.NewValidationError("preconditioner", "is required", nil)
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = log.GetLoggerWithName("eigenpro.trainer")
	}
	return &Trainer{
		cfg:   cfg,
		coef:  mat.NewDense(n, t, nil),
		state: Initialized,
	}, nil
}

// State returns the current lifecycle stage.
func (tr *Trainer) State() State { return tr.state }

// Coef returns the coefficient matrix. It is updated in place while
// training.
func (tr *Trainer) Coef() *mat.Dense { return tr.coef }

// Run trains for nEpoch epochs and moves the trainer to Fitted. Each epoch
// draws a random permutation of the n indices, drops the last n mod bs of
// them and splits the rest into n/bs batches.
func (tr *Trainer) Run(nEpoch int) (*mat.Dense, error) {
	if tr.state != Initialized {
		return nil, errors.Newf("eigenpro: trainer cannot run from state %s", tr.state)
	}
	tr.state = Training

	n, _ := tr.cfg.Centers.Dims()
	bs := tr.cfg.Hyperparams.BatchSize
	nBatches := n / bs
	kernelName := tr.cfg.Kernel.Name()

	for epoch := 0; epoch < nEpoch; epoch++ {
		begin := time.Now()
		perm := tr.cfg.Rand.Perm(n)[:nBatches*bs]
		for b := 0; b < nBatches; b++ {
			tr.Update(perm[b*bs : (b+1)*bs])
		}
		end := time.Now()

		tr.cfg.Logger.Debug("epoch finished",
			log.EpochKey, epoch+1,
			log.BatchesKey, nBatches,
			log.DurationMsKey, end.Sub(begin).Milliseconds(),
		)
		tr.cfg.Monitor.ObserveEpoch(kernelName, nBatches)

		if len(tr.cfg.Callbacks) == 0 {
			continue
		}
		env := &EpochEnv{
			Epoch:     epoch,
			NEpoch:    nEpoch,
			Batches:   nBatches,
			BatchSize: bs,
			BeginTime: begin,
			EndTime:   end,
			Coef:      tr.coef,
			predict: func(X mat.Matrix) *mat.Dense {
				return predictChunks(tr.cfg.Kernel, tr.cfg.Centers, tr.coef, kernel.NewPoints(X), bs)
			},
		}
		for _, cb := range tr.cfg.Callbacks {
			if err := cb(env); err != nil {
				return nil, errors.Wrapf(err, "eigenpro: callback aborted training at epoch %d", epoch+1)
			}
		}
	}

	if bad := errors.CountNonFinite(tr.coef); bad > 0 {
		r, c := tr.coef.Dims()
		errors.Warn(errors.NewNumericalWarning("eigenpro.Trainer.Run", bad, r*c))
	}
	tr.state = Fitted
	return tr.coef, nil
}

// Update applies one mini-batch step for the distinct indices in batch:
//
//  1. g = K(batch, centers)·coef − Y[batch]; coef[batch] −= step·g
//  2. coef[subsample] += step·V·diag(Q)·Vᵀ·K(batch, subsample)ᵀ·g
//
// The second update reads the gradient of the first but is applied only
// after the first is committed, which matters when the batch and the
// subsample share indices.
func (tr *Trainer) Update(batch []int) {
	centers := tr.cfg.Centers
	_, t := tr.coef.Dims()
	step := float64(tr.cfg.Hyperparams.Step)

	kfeat := tr.cfg.Kernel.Compute(centers.Select(batch), centers)

	g := reuse(&tr.grad, len(batch), t)
	g.Mul(kfeat, tr.coef)
	for r, i := range batch {
		row := g.RawRowView(r)
		for j := range row {
			row[j] -= tr.cfg.Targets.At(i, j)
		}
	}

	for r, i := range batch {
		grad := g.RawRowView(r)
		dst := tr.coef.RawRowView(i)
		for j := range dst {
			dst[j] -= step * grad[j]
		}
	}

	pre := tr.cfg.Preconditioner
	if pre.NComponents == 0 {
		return
	}
	sub := tr.cfg.Subsample
	kSub := reuse(&tr.kSub, len(batch), len(sub))
	for r := range batch {
		src := kfeat.RawRowView(r)
		dst := kSub.RawRowView(r)
		for c, i := range sub {
			dst[c] = src[i]
		}
	}
	delta := pre.Correction(kSub, g)
	for r, i := range sub {
		d := delta.RawRowView(r)
		dst := tr.coef.RawRowView(i)
		for j := range dst {
			dst[j] += step * d[j]
		}
	}
}

// reuse returns *buf when it is r×c and replaces it with a new matrix
// otherwise. The contents are stale; callers overwrite every element.
func reuse(buf **mat.Dense, r, c int) *mat.Dense {
	if *buf != nil {
		if br, bc := (*buf).Dims(); br == r && bc == c {
			return *buf
		}
	}
	*buf = mat.NewDense(r, c, nil)
	return *buf
}
