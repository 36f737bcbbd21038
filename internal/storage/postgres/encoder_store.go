package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"maintlab/internal/domain"
	"maintlab/internal/storage"
)

// EncoderStore implements storage.EncoderStore using PostgreSQL. Each column
// holds one row; the ordered value list is a text array whose position is
// the code.
type EncoderStore struct {
	pool *Pool
}

// NewEncoderStore creates a new EncoderStore.
func NewEncoderStore(pool *Pool) *EncoderStore {
	return &EncoderStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EncoderStore = (*EncoderStore)(nil)

// Load retrieves the encoder for a column. Returns ErrNotFound if not exists.
func (s *EncoderStore) Load(ctx context.Context, column string) (*domain.Encoder, error) {
	query := `
		SELECT column_name, value_list
		FROM encoders
		WHERE column_name = $1
	`

	var name string
	var values []string
	err := s.pool.QueryRow(ctx, query, column).Scan(&name, &values)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("load encoder %s: %w", column, err)
	}
	return domain.RestoreEncoder(name, values), nil
}

// Save persists the encoder, replacing any prior version.
func (s *EncoderStore) Save(ctx context.Context, enc *domain.Encoder) error {
	if enc == nil || enc.Column() == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO encoders (column_name, value_list, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (column_name)
		DO UPDATE SET value_list = EXCLUDED.value_list, updated_at = NOW()
	`

	_, err := s.pool.Exec(ctx, query, enc.Column(), enc.Snapshot())
	if err != nil {
		return fmt.Errorf("save encoder %s: %w", enc.Column(), err)
	}
	return nil
}
