package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintlab/internal/domain"
	"maintlab/internal/storage"
	"maintlab/internal/storage/postgres"
)

func TestTrainingHistoryStore_AppendAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewTrainingHistoryStore(pool)
	ctx := context.Background()

	// Appended out of processed_at order; List must sort.
	later := &domain.TrainingHistoryRecord{
		ID:           uuid.NewString(),
		SourceFile:   "input2.csv",
		SampleCount:  5,
		MaxTimestamp: time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC),
		ProcessedAt:  time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC),
	}
	earlier := &domain.TrainingHistoryRecord{
		ID:           uuid.NewString(),
		SourceFile:   "input1.csv",
		SampleCount:  3,
		MaxTimestamp: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		ProcessedAt:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Append(ctx, later))
	require.NoError(t, store.Append(ctx, earlier))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "input1.csv", records[0].SourceFile)
	assert.Equal(t, 3, records[0].SampleCount)
	assert.True(t, records[0].MaxTimestamp.Equal(earlier.MaxTimestamp))
	assert.Equal(t, "input2.csv", records[1].SourceFile)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTrainingHistoryStore_AppendDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewTrainingHistoryStore(pool)
	ctx := context.Background()

	rec := &domain.TrainingHistoryRecord{
		ID:           uuid.NewString(),
		SourceFile:   "input1.csv",
		SampleCount:  12,
		MaxTimestamp: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		ProcessedAt:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.Append(ctx, rec))

	err := store.Append(ctx, rec)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestTrainingHistoryStore_AppendInvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewTrainingHistoryStore(pool)
	ctx := context.Background()

	assert.ErrorIs(t, store.Append(ctx, nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Append(ctx, &domain.TrainingHistoryRecord{ID: uuid.NewString()}), storage.ErrInvalidInput)
}

func TestTrainingHistoryStore_EmptyList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewTrainingHistoryStore(pool)

	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
