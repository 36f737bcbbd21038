package memory

import (
	"context"
	"testing"
	"time"

	"maintlab/internal/domain"
)

func fv(machine string, minute int, temp float64) *domain.FeatureVector {
	return &domain.FeatureVector{
		MachineID:   machine,
		Timestamp:   time.Date(2024, 6, 1, 10, minute, 0, 0, time.UTC),
		Temperature: temp,
	}
}

func TestFeatureStore_UpsertReplacesByKey(t *testing.T) {
	store := NewFeatureStore()
	ctx := context.Background()

	if err := store.UpsertBulk(ctx, []*domain.FeatureVector{fv("M1", 0, 70)}); err != nil {
		t.Fatalf("UpsertBulk failed: %v", err)
	}
	// Same key, new payload.
	if err := store.UpsertBulk(ctx, []*domain.FeatureVector{fv("M1", 0, 99)}); err != nil {
		t.Fatalf("UpsertBulk failed: %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("Count = %d, want 1 after upsert of same key", count)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if all[0].Temperature != 99 {
		t.Errorf("Temperature = %v, want replacement 99", all[0].Temperature)
	}
}

func TestFeatureStore_GetAllOrdered(t *testing.T) {
	store := NewFeatureStore()
	ctx := context.Background()

	vecs := []*domain.FeatureVector{
		fv("M2", 0, 1), fv("M1", 5, 2), fv("M1", 0, 3),
	}
	if err := store.UpsertBulk(ctx, vecs); err != nil {
		t.Fatalf("UpsertBulk failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}

	want := []struct {
		machine string
		minute  int
	}{{"M1", 0}, {"M1", 5}, {"M2", 0}}
	for i, w := range want {
		if all[i].MachineID != w.machine || all[i].Timestamp.Minute() != w.minute {
			t.Errorf("row %d = (%s, %d), want (%s, %d)",
				i, all[i].MachineID, all[i].Timestamp.Minute(), w.machine, w.minute)
		}
	}
}

func TestFeatureStore_LatestPerMachine(t *testing.T) {
	store := NewFeatureStore()
	ctx := context.Background()

	vecs := []*domain.FeatureVector{
		fv("M1", 0, 70), fv("M1", 9, 75), fv("M2", 3, 60),
	}
	if err := store.UpsertBulk(ctx, vecs); err != nil {
		t.Fatalf("UpsertBulk failed: %v", err)
	}

	latest, err := store.LatestPerMachine(ctx)
	if err != nil {
		t.Fatalf("LatestPerMachine failed: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("expected 2 machines, got %d", len(latest))
	}
	if latest[0].MachineID != "M1" || latest[0].Timestamp.Minute() != 9 {
		t.Errorf("M1 latest = minute %d, want 9", latest[0].Timestamp.Minute())
	}
	if latest[1].MachineID != "M2" {
		t.Errorf("second machine = %s, want M2", latest[1].MachineID)
	}
}

func TestFeatureStore_ReturnsCopies(t *testing.T) {
	store := NewFeatureStore()
	ctx := context.Background()

	if err := store.UpsertBulk(ctx, []*domain.FeatureVector{fv("M1", 0, 70)}); err != nil {
		t.Fatalf("UpsertBulk failed: %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	all[0].Temperature = -1

	again, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if again[0].Temperature != 70 {
		t.Errorf("stored vector mutated through returned copy")
	}
}
