package eigenpro

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/eigenpro/metrics"
	"github.com/YuminosukeSato/eigenpro/pkg/log"
)

// EpochEnv describes a finished training epoch.
type EpochEnv struct {
	// Epoch is the zero-based index of the finished epoch.
	Epoch int
	// NEpoch is the total number of epochs requested.
	NEpoch int
	// Batches is the number of mini-batch updates applied in this epoch.
	Batches int
	// BatchSize is the size of each mini-batch.
	BatchSize int
	BeginTime time.Time
	EndTime   time.Time
	// Coef is a read-only view of the current coefficients (n×t). It is only
	// valid during the callback.
	Coef mat.Matrix

	predict func(X mat.Matrix) *mat.Dense
}

// Elapsed is the wall time spent in the epoch.
func (e *EpochEnv) Elapsed() time.Duration { return e.EndTime.Sub(e.BeginTime) }

// Predict evaluates the model with the current coefficients on X, which must
// have the training feature dimension. The result is always n×t.
func (e *EpochEnv) Predict(X mat.Matrix) *mat.Dense { return e.predict(X) }

// Callback runs after every epoch. A non-nil error aborts the fit and no
// model is kept.
type Callback func(env *EpochEnv) error

// EpochRecord is one entry written by RecordEpochs.
type EpochRecord struct {
	Epoch    int
	Batches  int
	Duration time.Duration
}

// RecordEpochs appends the timing of every epoch to history.
func RecordEpochs(history *[]EpochRecord) Callback {
	return func(env *EpochEnv) error {
		*history = append(*history, EpochRecord{
			Epoch:    env.Epoch,
			Batches:  env.Batches,
			Duration: env.Elapsed(),
		})
		return nil
	}
}

// RecordLoss evaluates the mean squared error on (X, Y) after every epoch
// and appends it to history. Y may be a vector or an n×t matrix.
func RecordLoss(X, Y mat.Matrix, history *[]float64) Callback {
	return func(env *EpochEnv) error {
		pred := env.Predict(X)
		mse, err := metrics.MSEMatrix(Y, pred)
		if err != nil {
			return err
		}
		*history = append(*history, mse)
		return nil
	}
}

// LogEpochs logs progress at Info level every period epochs and after the
// last one.
func LogEpochs(logger log.Logger, period int) Callback {
	if period < 1 {
		period = 1
	}
	return func(env *EpochEnv) error {
		if (env.Epoch+1)%period == 0 || env.Epoch+1 == env.NEpoch {
			logger.Info("epoch finished",
				log.EpochKey, env.Epoch+1,
				log.BatchesKey, env.Batches,
				log.DurationMsKey, env.Elapsed().Milliseconds(),
			)
		}
		return nil
	}
}
