// Package memory provides in-memory store implementations, used by unit
// tests and as the default backend when no database is configured.
package memory

import (
	"context"
	"sync"

	"maintlab/internal/domain"
	"maintlab/internal/storage"
)

// EncoderStore is an in-memory implementation of storage.EncoderStore.
type EncoderStore struct {
	mu   sync.RWMutex
	data map[string][]string // column -> value snapshot in code order
}

// NewEncoderStore creates a new in-memory encoder store.
func NewEncoderStore() *EncoderStore {
	return &EncoderStore{
		data: make(map[string][]string),
	}
}

// Compile-time interface check.
var _ storage.EncoderStore = (*EncoderStore)(nil)

// Load retrieves the encoder for a column. Returns ErrNotFound if none has
// been persisted yet.
func (s *EncoderStore) Load(_ context.Context, column string) (*domain.Encoder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, exists := s.data[column]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return domain.RestoreEncoder(column, values), nil
}

// Save persists the encoder, replacing any prior version.
func (s *EncoderStore) Save(_ context.Context, enc *domain.Encoder) error {
	if enc == nil || enc.Column() == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[enc.Column()] = enc.Snapshot()
	return nil
}
