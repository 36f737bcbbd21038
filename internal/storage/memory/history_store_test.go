package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"maintlab/internal/domain"
	"maintlab/internal/storage"
)

func TestTrainingHistoryStore_AppendAndList(t *testing.T) {
	store := NewTrainingHistoryStore()
	ctx := context.Background()

	// Appended out of processed_at order; List must sort.
	later := &domain.TrainingHistoryRecord{
		ID: "b", SourceFile: "input2.csv", SampleCount: 5,
		ProcessedAt: time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC),
	}
	earlier := &domain.TrainingHistoryRecord{
		ID: "a", SourceFile: "input1.csv", SampleCount: 3,
		ProcessedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Append(ctx, later); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, earlier); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].SourceFile != "input1.csv" || records[1].SourceFile != "input2.csv" {
		t.Errorf("records not ordered by processed_at: %s, %s",
			records[0].SourceFile, records[1].SourceFile)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
}

func TestTrainingHistoryStore_InvalidInput(t *testing.T) {
	store := NewTrainingHistoryStore()
	ctx := context.Background()

	if err := store.Append(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Append(ctx, &domain.TrainingHistoryRecord{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty source file, got %v", err)
	}
}

func TestTrainingHistoryStore_ListReturnsCopies(t *testing.T) {
	store := NewTrainingHistoryStore()
	ctx := context.Background()

	rec := &domain.TrainingHistoryRecord{ID: "a", SourceFile: "input1.csv"}
	if err := store.Append(ctx, rec); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	records[0].SourceFile = "mutated.csv"

	again, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if again[0].SourceFile != "input1.csv" {
		t.Error("stored record mutated through returned copy")
	}
}
