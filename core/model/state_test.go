package model

import (
	"sync"
	"testing"

	"github.com/YuminosukeSato/eigenpro/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fittedStub struct{ coef []float64 }

func TestFitState(t *testing.T) {
	var s FitState[fittedStub]
	assert.False(t, s.IsFitted())

	_, err := s.Get("Stub", "Predict")
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Stub", nf.ModelName)
	assert.Equal(t, "Predict", nf.Method)

	s.Set(&fittedStub{coef: []float64{1, 2}})
	assert.True(t, s.IsFitted())
	got, err := s.Get("Stub", "Predict")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, got.coef)

	s.Reset()
	assert.False(t, s.IsFitted())
}

func TestFitStateConcurrentReaders(t *testing.T) {
	var s FitState[fittedStub]
	s.Set(&fittedStub{coef: []float64{3}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.Get("Stub", "Predict")
			if assert.NoError(t, err) {
				assert.Equal(t, 3.0, v.coef[0])
			}
		}()
	}
	s.Set(&fittedStub{coef: []float64{3}})
	wg.Wait()
}
