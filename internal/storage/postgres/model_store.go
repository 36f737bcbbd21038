package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"maintlab/internal/domain"
	"maintlab/internal/learn"
	"maintlab/internal/storage"
)

const (
	kindClassifier = "classifier"
	kindRegressor  = "regressor"
)

// ModelStore implements storage.ModelStore using PostgreSQL. Artifacts are
// stored as JSONB keyed by (failure_type, kind) and replaced wholesale on
// save.
type ModelStore struct {
	pool *Pool
}

// NewModelStore creates a new ModelStore.
func NewModelStore(pool *Pool) *ModelStore {
	return &ModelStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ModelStore = (*ModelStore)(nil)

// SaveClassifier persists the classifier for a failure type.
func (s *ModelStore) SaveClassifier(ctx context.Context, ft domain.FailureType, c *learn.Classifier) error {
	if c == nil {
		return storage.ErrInvalidInput
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal classifier %s: %w", ft, err)
	}
	return s.save(ctx, ft, kindClassifier, data)
}

// SaveRegressor persists the regressor for a failure type.
func (s *ModelStore) SaveRegressor(ctx context.Context, ft domain.FailureType, r *learn.Regressor) error {
	if r == nil {
		return storage.ErrInvalidInput
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal regressor %s: %w", ft, err)
	}
	return s.save(ctx, ft, kindRegressor, data)
}

func (s *ModelStore) save(ctx context.Context, ft domain.FailureType, kind string, payload []byte) error {
	query := `
		INSERT INTO model_artifacts (failure_type, kind, payload, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (failure_type, kind)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`

	_, err := s.pool.Exec(ctx, query, string(ft), kind, payload)
	if err != nil {
		return fmt.Errorf("save %s %s: %w", kind, ft, err)
	}
	return nil
}

// LoadClassifier retrieves the classifier. Returns ErrNotFound if absent.
func (s *ModelStore) LoadClassifier(ctx context.Context, ft domain.FailureType) (*learn.Classifier, error) {
	payload, err := s.load(ctx, ft, kindClassifier)
	if err != nil {
		return nil, err
	}

	var c learn.Classifier
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("decode classifier %s: %w", ft, err)
	}
	return &c, nil
}

// LoadRegressor retrieves the regressor. Returns ErrNotFound if absent.
func (s *ModelStore) LoadRegressor(ctx context.Context, ft domain.FailureType) (*learn.Regressor, error) {
	payload, err := s.load(ctx, ft, kindRegressor)
	if err != nil {
		return nil, err
	}

	var r learn.Regressor
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("decode regressor %s: %w", ft, err)
	}
	return &r, nil
}

func (s *ModelStore) load(ctx context.Context, ft domain.FailureType, kind string) ([]byte, error) {
	query := `
		SELECT payload
		FROM model_artifacts
		WHERE failure_type = $1 AND kind = $2
	`

	var payload []byte
	err := s.pool.QueryRow(ctx, query, string(ft), kind).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("load %s %s: %w", kind, ft, err)
	}
	return payload, nil
}

// State reports which artifacts exist for a failure type.
func (s *ModelStore) State(ctx context.Context, ft domain.FailureType) (storage.ModelState, error) {
	query := `
		SELECT kind
		FROM model_artifacts
		WHERE failure_type = $1
	`

	rows, err := s.pool.Query(ctx, query, string(ft))
	if err != nil {
		return storage.ModelState{}, fmt.Errorf("model state %s: %w", ft, err)
	}
	defer rows.Close()

	state := storage.ModelState{}
	for rows.Next() {
		var kind string
		if err := rows.Scan(&kind); err != nil {
			return storage.ModelState{}, fmt.Errorf("scan model state row: %w", err)
		}
		switch kind {
		case kindClassifier:
			state.Classifier = storage.ArtifactPresent
		case kindRegressor:
			state.Regressor = storage.ArtifactPresent
		}
	}
	if err := rows.Err(); err != nil {
		return storage.ModelState{}, fmt.Errorf("iterate model state rows: %w", err)
	}
	return state, nil
}
