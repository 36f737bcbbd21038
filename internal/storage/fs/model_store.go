package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"maintlab/internal/domain"
	"maintlab/internal/learn"
	"maintlab/internal/storage"
)

// ModelStore persists model artifacts as
// <failure_type>_{classifier,regressor}.json files.
type ModelStore struct {
	dir string
}

// Compile-time interface check.
var _ storage.ModelStore = (*ModelStore)(nil)

func (s *ModelStore) path(ft domain.FailureType, kind string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", ft, kind))
}

// SaveClassifier persists the classifier for a failure type.
func (s *ModelStore) SaveClassifier(_ context.Context, ft domain.FailureType, c *learn.Classifier) error {
	if c == nil {
		return storage.ErrInvalidInput
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal classifier %s: %w", ft, err)
	}
	return writeAtomic(s.path(ft, "classifier"), data)
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
	return writeAtomic(s.path(ft, "regressor"), data)
}

// LoadClassifier retrieves the classifier. Returns ErrNotFound if absent.
func (s *ModelStore) LoadClassifier(_ context.Context, ft domain.FailureType) (*learn.Classifier, error) {
	data, err := os.ReadFile(s.path(ft, "classifier"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("read classifier %s: %w", ft, err)
	}

	var c learn.Classifier
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode classifier %s: %w", ft, err)
	}
	return &c, nil
}

// LoadRegressor retrieves the regressor. Returns ErrNotFound if absent.
func (s *ModelStore) LoadRegressor(_ context.Context, ft domain.FailureType) (*learn.Regressor, error) {
	data, err := os.ReadFile(s.path(ft, "regressor"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("read regressor %s: %w", ft, err)
	}

	var r learn.Regressor
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode regressor %s: %w", ft, err)
	}
	return &r, nil
}

// State reports which artifacts exist for a failure type.
func (s *ModelStore) State(_ context.Context, ft domain.FailureType) (storage.ModelState, error) {
	state := storage.ModelState{}

	if present, err := exists(s.path(ft, "classifier")); err != nil {
		return state, err
	} else if present {
		state.Classifier = storage.ArtifactPresent
	}

	if present, err := exists(s.path(ft, "regressor")); err != nil {
		return state, err
	} else if present {
		state.Regressor = storage.ArtifactPresent
	}

	return state, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}
