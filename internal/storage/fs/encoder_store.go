package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"maintlab/internal/domain"
	"maintlab/internal/storage"
)

// EncoderStore persists encoders as <column>_encoder.json files.
type EncoderStore struct {
	dir string
}

// Compile-time interface check.
var _ storage.EncoderStore = (*EncoderStore)(nil)

type encoderFile struct {
	Column string   `json:"column"`
	Values []string `json:"values"`
}

func (s *EncoderStore) path(column string) string {
	return filepath.Join(s.dir, column+"_encoder.json")
}

// Load retrieves the encoder for a column. Returns ErrNotFound if the
// artifact does not exist.
func (s *EncoderStore) Load(_ context.Context, column string) (*domain.Encoder, error) {
	data, err := os.ReadFile(s.path(column))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("read encoder %s: %w", column, err)
	}

	var f encoderFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode encoder %s: %w", column, err)
	}
	return domain.RestoreEncoder(f.Column, f.Values), nil
}

// Save persists the encoder, replacing any prior version atomically.
func (s *EncoderStore) Save(_ context.Context, enc *domain.Encoder) error {
	if enc == nil || enc.Column() == "" {
		return storage.ErrInvalidInput
	}

	data, err := json.Marshal(encoderFile{
		Column: enc.Column(),
		Values: enc.Snapshot(),
	})
	if err != nil {
		return fmt.Errorf("encode encoder %s: %w", enc.Column(), err)
	}
	return writeAtomic(s.path(enc.Column()), data)
}
