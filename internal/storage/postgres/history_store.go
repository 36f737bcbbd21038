package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"maintlab/internal/domain"
	"maintlab/internal/storage"
)

// unique_violation, the only constraint error Append maps to a sentinel.
const pgErrUniqueViolation = "23505"

// TrainingHistoryStore implements storage.TrainingHistoryStore using
// PostgreSQL.
type TrainingHistoryStore struct {
	pool *Pool
}

// NewTrainingHistoryStore creates a new TrainingHistoryStore.
func NewTrainingHistoryStore(pool *Pool) *TrainingHistoryStore {
	return &TrainingHistoryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TrainingHistoryStore = (*TrainingHistoryStore)(nil)

// Append adds one record. Returns ErrDuplicateKey if the record ID exists.
func (s *TrainingHistoryStore) Append(ctx context.Context, rec *domain.TrainingHistoryRecord) error {
	if rec == nil || rec.SourceFile == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO training_history (id, source_file, sample_count, max_timestamp, processed_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		rec.ID,
		rec.SourceFile,
		rec.SampleCount,
		rec.MaxTimestamp,
		rec.ProcessedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("append training history: %w", err)
	}
	return nil
}

// List retrieves all records ordered by processed_at ascending.
func (s *TrainingHistoryStore) List(ctx context.Context) ([]*domain.TrainingHistoryRecord, error) {
	query := `
		SELECT id, source_file, sample_count, max_timestamp, processed_at
		FROM training_history
		ORDER BY processed_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list training history: %w", err)
	}
	defer rows.Close()

	var records []*domain.TrainingHistoryRecord
	for rows.Next() {
		var rec domain.TrainingHistoryRecord
		err := rows.Scan(
			&rec.ID,
			&rec.SourceFile,
			&rec.SampleCount,
			&rec.MaxTimestamp,
			&rec.ProcessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan training history row: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate training history rows: %w", err)
	}
	return records, nil
}

// Count returns the number of records.
func (s *TrainingHistoryStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM training_history`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count training history: %w", err)
	}
	return count, nil
}
