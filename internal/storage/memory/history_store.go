package memory

import (
	"context"
	"sort"
	"sync"

	"maintlab/internal/domain"
	"maintlab/internal/storage"
)

// TrainingHistoryStore is an in-memory implementation of
// storage.TrainingHistoryStore.
type TrainingHistoryStore struct {
	mu      sync.RWMutex
	records []*domain.TrainingHistoryRecord
}

// NewTrainingHistoryStore creates a new in-memory history store.
func NewTrainingHistoryStore() *TrainingHistoryStore {
	return &TrainingHistoryStore{}
}

// Compile-time interface check.
var _ storage.TrainingHistoryStore = (*TrainingHistoryStore)(nil)

// Append adds one record.
func (s *TrainingHistoryStore) Append(_ context.Context, rec *domain.TrainingHistoryRecord) error {
	if rec == nil || rec.SourceFile == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to prevent external mutation
	recCopy := *rec
	s.records = append(s.records, &recCopy)
	return nil
}

// List retrieves all records ordered by processed_at ascending.
func (s *TrainingHistoryStore) List(_ context.Context) ([]*domain.TrainingHistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.TrainingHistoryRecord, len(s.records))
	for i, rec := range s.records {
		recCopy := *rec
		result[i] = &recCopy
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ProcessedAt.Before(result[j].ProcessedAt)
	})
	return result, nil
}

// Count returns the number of records.
func (s *TrainingHistoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
