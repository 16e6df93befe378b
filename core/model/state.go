package model

import (
	"sync"

	"github.com/YuminosukeSato/eigenpro/pkg/errors"
)

// FitState holds a model's fitted data as an explicit two-state value:
// Unfitted (nil) or Fitted(*T). Callers never inspect individual fields to
// decide whether a model was trained; Get either returns the whole fitted
// value or a NotFittedError.
//
// FitState is safe for concurrent use. Set replaces the fitted value
// atomically, so a Predict running during a re-fit sees either the old or
// the new model, never a mix.
type FitState[T any] struct {
	mu     sync.RWMutex
	fitted *T
}

// Set marks the model as fitted with v.
func (s *FitState[T]) Set(v *T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = v
}

// Reset returns the model to the Unfitted state.
func (s *FitState[T]) Reset() {
	s.Set(nil)
}

// IsFitted reports whether the model holds fitted data.
func (s *FitState[T]) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted != nil
}

// Get returns the fitted value, or a NotFittedError naming the model and the
// method that needed it.
func (s *FitState[T]) Get(modelName, method string) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fitted == nil {
		return nil, errors.NewNotFittedError(modelName, method)
	}
	return s.fitted, nil
}
