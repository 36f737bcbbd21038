package storage

import (
	"context"

	"maintlab/internal/domain"
	"maintlab/internal/learn"
)

// ArtifactState reports whether a persisted model artifact exists.
// Consumers get a typed answer instead of probing file paths.
type ArtifactState int

const (
	ArtifactAbsent ArtifactState = iota
	ArtifactPresent
)

// ModelState reports the persisted state of one failure type's model pair.
type ModelState struct {
	Classifier ArtifactState
	Regressor  ArtifactState
}

// EncoderStore persists one categorical encoder per column.
type EncoderStore interface {
	// Load retrieves the encoder for a column. Returns ErrNotFound if none
	// has been persisted yet.
	Load(ctx context.Context, column string) (*domain.Encoder, error)

	// Save persists the encoder, replacing any prior version. The write is
	// atomic at the artifact level.
	Save(ctx context.Context, enc *domain.Encoder) error
}

// ModelStore persists one classifier and one regressor per failure type.
// Artifacts are replaced wholesale on save, never merged.
type ModelStore interface {
	// SaveClassifier persists the classifier for a failure type.
	SaveClassifier(ctx context.Context, ft domain.FailureType, c *learn.Classifier) error

	// SaveRegressor persists the regressor for a failure type.
	SaveRegressor(ctx context.Context, ft domain.FailureType, r *learn.Regressor) error

	// LoadClassifier retrieves the classifier. Returns ErrNotFound if absent.
	LoadClassifier(ctx context.Context, ft domain.FailureType) (*learn.Classifier, error)

	// LoadRegressor retrieves the regressor. Returns ErrNotFound if absent.
	LoadRegressor(ctx context.Context, ft domain.FailureType) (*learn.Regressor, error)

	// State reports which artifacts exist for a failure type.
	State(ctx context.Context, ft domain.FailureType) (ModelState, error)
}

// TrainingHistoryStore is the append-only training log.
type TrainingHistoryStore interface {
	// Append adds one record. Records are never updated or removed.
	Append(ctx context.Context, rec *domain.TrainingHistoryRecord) error

	// List retrieves all records ordered by processed_at ascending.
	List(ctx context.Context) ([]*domain.TrainingHistoryRecord, error)

	// Count returns the number of records.
	Count(ctx context.Context) (int, error)
}

// FeatureStore holds the encoded feature corpus. Rows are keyed by
// (machine_id, timestamp); upserting the same key replaces the row, which
// makes batch reprocessing idempotent.
type FeatureStore interface {
	// UpsertBulk inserts or replaces feature vectors by key.
	UpsertBulk(ctx context.Context, vecs []*domain.FeatureVector) error

	// GetAll retrieves the whole corpus ordered by (machine_id, timestamp) ASC.
	GetAll(ctx context.Context) ([]*domain.FeatureVector, error)

	// LatestPerMachine retrieves each machine's most recent vector,
	// ordered by machine_id ASC.
	LatestPerMachine(ctx context.Context) ([]*domain.FeatureVector, error)

	// Count returns the number of stored vectors.
	Count(ctx context.Context) (int, error)
}
