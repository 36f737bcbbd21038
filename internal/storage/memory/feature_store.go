package memory

import (
	"context"
	"sort"
	"sync"

	"maintlab/internal/domain"
	"maintlab/internal/storage"
)

// FeatureStore is an in-memory implementation of storage.FeatureStore.
type FeatureStore struct {
	mu   sync.RWMutex
	data map[featureKey]*domain.FeatureVector
}

type featureKey struct {
	machineID string
	timestamp int64 // UnixNano
}

// NewFeatureStore creates a new in-memory feature store.
func NewFeatureStore() *FeatureStore {
	return &FeatureStore{
		data: make(map[featureKey]*domain.FeatureVector),
	}
}

// Compile-time interface check.
var _ storage.FeatureStore = (*FeatureStore)(nil)

// UpsertBulk inserts or replaces feature vectors by (machine_id, timestamp).
func (s *FeatureStore) UpsertBulk(_ context.Context, vecs []*domain.FeatureVector) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range vecs {
		if v == nil || v.MachineID == "" {
			return storage.ErrInvalidInput
		}
		// Store a copy to prevent external mutation
		vecCopy := *v
		s.data[featureKey{v.MachineID, v.Timestamp.UnixNano()}] = &vecCopy
	}
	return nil
}

// GetAll retrieves the whole corpus ordered by (machine_id, timestamp) ASC.
func (s *FeatureStore) GetAll(_ context.Context) ([]*domain.FeatureVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.FeatureVector, 0, len(s.data))
	for _, v := range s.data {
		vecCopy := *v
		result = append(result, &vecCopy)
	}
	sortVectors(result)
	return result, nil
}

// LatestPerMachine retrieves each machine's most recent vector, ordered by
// machine_id ASC.
func (s *FeatureStore) LatestPerMachine(_ context.Context) ([]*domain.FeatureVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[string]*domain.FeatureVector)
	for _, v := range s.data {
		cur, exists := latest[v.MachineID]
		if !exists || v.Timestamp.After(cur.Timestamp) {
			latest[v.MachineID] = v
		}
	}

	result := make([]*domain.FeatureVector, 0, len(latest))
	for _, v := range latest {
		vecCopy := *v
		result = append(result, &vecCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].MachineID < result[j].MachineID
	})
	return result, nil
}

// Count returns the number of stored vectors.
func (s *FeatureStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}

func sortVectors(vecs []*domain.FeatureVector) {
	sort.Slice(vecs, func(i, j int) bool {
		if vecs[i].MachineID != vecs[j].MachineID {
			return vecs[i].MachineID < vecs[j].MachineID
		}
		return vecs[i].Timestamp.Before(vecs[j].Timestamp)
	})
}
