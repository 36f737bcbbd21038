package fs

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"maintlab/internal/domain"
	"maintlab/internal/storage"
)

// historyTimeLayout matches the source system's training log format.
const historyTimeLayout = "2006-01-02 15:04:05"

var historyHeader = []string{"file", "samples", "timestamp", "training_time"}

// TrainingHistoryStore appends to a training_log.csv file. The CSV carries
// no record IDs; List returns records with an empty ID.
type TrainingHistoryStore struct {
	mu   sync.Mutex
	path string
}

// Compile-time interface check.
var _ storage.TrainingHistoryStore = (*TrainingHistoryStore)(nil)

// Append adds one record, writing the header first if the log is new.
func (s *TrainingHistoryStore) Append(_ context.Context, rec *domain.TrainingHistoryRecord) error {
	if rec == nil || rec.SourceFile == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open training log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat training log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(historyHeader); err != nil {
			return fmt.Errorf("write training log header: %w", err)
		}
	}
	row := []string{
		rec.SourceFile,
		strconv.Itoa(rec.SampleCount),
		rec.MaxTimestamp.UTC().Format(historyTimeLayout),
		rec.ProcessedAt.UTC().Format(historyTimeLayout),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write training log row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush training log: %w", err)
	}
	return nil
}

// List retrieves all records ordered by processed_at ascending.
func (s *TrainingHistoryStore) List(_ context.Context) ([]*domain.TrainingHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open training log: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read training log: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]*domain.TrainingHistoryRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseHistoryRow(row)
		if err != nil {
			return nil, fmt.Errorf("training log line %d: %w", i+2, err)
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ProcessedAt.Before(records[j].ProcessedAt)
	})
	return records, nil
}

// Count returns the number of records.
func (s *TrainingHistoryStore) Count(ctx context.Context) (int, error) {
	records, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func parseHistoryRow(row []string) (*domain.TrainingHistoryRecord, error) {
	if len(row) != len(historyHeader) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(historyHeader), len(row))
	}

	samples, err := strconv.Atoi(row[1])
	if err != nil {
		return nil, fmt.Errorf("parse samples %q: %w", row[1], err)
	}
	maxTS, err := time.Parse(historyTimeLayout, row[2])
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", row[2], err)
	}
	processedAt, err := time.Parse(historyTimeLayout, row[3])
	if err != nil {
		return nil, fmt.Errorf("parse training_time %q: %w", row[3], err)
	}

	return &domain.TrainingHistoryRecord{
		SourceFile:   row[0],
		SampleCount:  samples,
		MaxTimestamp: maxTS.UTC(),
		ProcessedAt:  processedAt.UTC(),
	}, nil
}
