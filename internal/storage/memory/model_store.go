package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"maintlab/internal/domain"
	"maintlab/internal/learn"
	"maintlab/internal/storage"
)

// ModelStore is an in-memory implementation of storage.ModelStore. Artifacts
// are stored as serialized bytes so callers cannot mutate a saved model.
type ModelStore struct {
	mu          sync.RWMutex
	classifiers map[domain.FailureType][]byte
	regressors  map[domain.FailureType][]byte
}

// NewModelStore creates a new in-memory model store.
func NewModelStore() *ModelStore {
	return &ModelStore{
		classifiers: make(map[domain.FailureType][]byte),
		regressors:  make(map[domain.FailureType][]byte),
	}
}

// Compile-time interface check.
var _ storage.ModelStore = (*ModelStore)(nil)

// SaveClassifier persists the classifier for a failure type.
func (s *ModelStore) SaveClassifier(_ context.Context, ft domain.FailureType, c *learn.Classifier) error {
	if c == nil {
		return storage.ErrInvalidInput
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal classifier %s: %w", ft, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.classifiers[ft] = data
	return nil
}

// SaveRegressor persists the regressor for a failure type.
func (s *ModelStore) SaveRegressor(_ context.Context, ft domain.FailureType, r *learn.Regressor) error {
	if r == nil {
		return storage.ErrInvalidInput
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal regressor %s: %w", ft, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.regressors[ft] = data
	return nil
}

// LoadClassifier retrieves the classifier. Returns ErrNotFound if absent.
func (s *ModelStore) LoadClassifier(_ context.Context, ft domain.FailureType) (*learn.Classifier, error) {
	s.mu.RLock()
	data, exists := s.classifiers[ft]
	s.mu.RUnlock()

	if !exists {
		return nil, storage.ErrNotFound
	}

	var c learn.Classifier
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal classifier %s: %w", ft, err)
	}
	return &c, nil
}

// LoadRegressor retrieves the regressor. Returns ErrNotFound if absent.
func (s *ModelStore) LoadRegressor(_ context.Context, ft domain.FailureType) (*learn.Regressor, error) {
	s.mu.RLock()
	data, exists := s.regressors[ft]
	s.mu.RUnlock()

	if !exists {
		return nil, storage.ErrNotFound
	}

	var r learn.Regressor
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal regressor %s: %w", ft, err)
	}
	return &r, nil
}

// State reports which artifacts exist for a failure type.
func (s *ModelStore) State(_ context.Context, ft domain.FailureType) (storage.ModelState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := storage.ModelState{}
	if _, ok := s.classifiers[ft]; ok {
		state.Classifier = storage.ArtifactPresent
	}
	if _, ok := s.regressors[ft]; ok {
		state.Regressor = storage.ArtifactPresent
	}
	return state, nil
}
