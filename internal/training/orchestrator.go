// Package training drives sequential batch processing:
// ingest → feature engineering → encoding → corpus upsert → model bank
// update → history append. One file is fully processed before the next
// begins, and every artifact persists per file, so an interrupted run
// resumes at the next unprocessed file.
package training

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"maintlab/internal/domain"
	"maintlab/internal/encoders"
	"maintlab/internal/features"
	"maintlab/internal/ingest"
	"maintlab/internal/modelbank"
	"maintlab/internal/observability"
	"maintlab/internal/storage"
)

// Options for creating an Orchestrator.
type Options struct {
	Registry *encoders.Registry
	Features storage.FeatureStore
	Bank     *modelbank.Bank
	History  storage.TrainingHistoryStore

	// BatchGlob matches candidate batch files. Lexicographic file order
	// must correspond to chronological order; callers own the naming.
	BatchGlob string

	Logger  *zap.Logger
	Metrics *observability.Metrics // optional

	// Now is the clock used for history records. Defaults to time.Now UTC.
	Now func() time.Time
}

// Orchestrator coordinates incremental training over batch files.
type Orchestrator struct {
	registry *encoders.Registry
	features storage.FeatureStore
	bank     *modelbank.Bank
	history  storage.TrainingHistoryStore

	batchGlob string
	logger    *zap.Logger
	metrics   *observability.Metrics
	now       func() time.Time
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Orchestrator{
		registry:  opts.Registry,
		features:  opts.Features,
		bank:      opts.Bank,
		history:   opts.History,
		batchGlob: opts.BatchGlob,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		now:       now,
	}
}

// RunResult summarizes one orchestrator run.
type RunResult struct {
	FilesDiscovered  int
	FilesProcessed   int
	FilesSkipped     int // already in the training history
	SamplesProcessed int
	Errors           []string
}

// Run discovers batch files, sorts them lexicographically, and processes
// each unprocessed file in order. A bad file is logged and skipped; the
// run continues with the next one.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}

	candidates, err := filepath.Glob(o.batchGlob)
	if err != nil {
		return nil, fmt.Errorf("discover batch files %q: %w", o.batchGlob, err)
	}
	sort.Strings(candidates)
	result.FilesDiscovered = len(candidates)
	o.logger.Info("discovered batch files",
		zap.String("glob", o.batchGlob), zap.Int("count", len(candidates)))

	processed, err := o.processedFiles(ctx)
	if err != nil {
		return nil, err
	}

	for _, path := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		name := filepath.Base(path)
		if _, done := processed[name]; done {
			result.FilesSkipped++
			o.logger.Debug("batch already processed", zap.String("file", name))
			continue
		}

		samples, trainErrs, err := o.processFile(ctx, path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, err))
			o.logger.Error("batch failed, continuing with next file",
				zap.String("file", name), zap.Error(err))
			if o.metrics != nil {
				o.metrics.BatchesFailed.Inc()
			}
			continue
		}

		result.FilesProcessed++
		result.SamplesProcessed += samples
		result.Errors = append(result.Errors, trainErrs...)
		o.logger.Info("batch processed",
			zap.String("file", name), zap.Int("samples", samples))
	}

	o.logger.Info("training run completed",
		zap.Int("files_processed", result.FilesProcessed),
		zap.Int("files_skipped", result.FilesSkipped),
		zap.Int("samples", result.SamplesProcessed),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

// processedFiles returns the set of batch file names already recorded in
// the training history.
func (o *Orchestrator) processedFiles(ctx context.Context) (map[string]struct{}, error) {
	records, err := o.history.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load training history: %w", err)
	}
	processed := make(map[string]struct{}, len(records))
	for _, rec := range records {
		processed[rec.SourceFile] = struct{}{}
	}
	return processed, nil
}

// processFile runs the full per-batch sequence. Model-training errors for
// individual failure types do not fail the file; they are returned for the
// run result.
func (o *Orchestrator) processFile(ctx context.Context, path string) (samples int, trainErrs []string, err error) {
	name := filepath.Base(path)

	readings, err := ingest.ReadBatch(path)
	if err != nil {
		return 0, nil, err
	}

	vecs := features.Engineer(readings)
	if err := o.registry.Apply(ctx, vecs); err != nil {
		return 0, nil, fmt.Errorf("encode batch: %w", err)
	}

	if err := o.features.UpsertBulk(ctx, vecs); err != nil {
		return 0, nil, fmt.Errorf("store features: %w", err)
	}

	// Retrain on the cumulative corpus, not just this batch.
	corpus, err := o.features.GetAll(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("load corpus: %w", err)
	}

	update, err := o.bank.Update(ctx, corpus)
	if err != nil {
		return 0, nil, fmt.Errorf("update model bank: %w", err)
	}
	for _, e := range update.Errors {
		trainErrs = append(trainErrs, fmt.Sprintf("%s: %s", name, e))
	}

	record := &domain.TrainingHistoryRecord{
		ID:           uuid.NewString(),
		SourceFile:   name,
		SampleCount:  len(readings),
		MaxTimestamp: maxTimestamp(readings),
		ProcessedAt:  o.now(),
	}
	if err := o.history.Append(ctx, record); err != nil {
		return 0, nil, fmt.Errorf("append history: %w", err)
	}

	if o.metrics != nil {
		o.metrics.BatchesProcessed.Inc()
		o.metrics.SamplesIngested.Add(float64(len(readings)))
		o.metrics.ClassifiersTrained.Add(float64(update.ClassifiersTrained))
		o.metrics.RegressorsTrained.Add(float64(update.RegressorsTrained))
		o.metrics.ClassifiersSkipped.Add(float64(len(update.ClassifiersSkipped)))
		if !record.MaxTimestamp.IsZero() {
			o.metrics.LastBatchTimestamp.Set(float64(record.MaxTimestamp.Unix()))
		}
	}

	return len(readings), trainErrs, nil
}

func maxTimestamp(readings []domain.SensorReading) time.Time {
	var max time.Time
	for _, r := range readings {
		if r.Timestamp.After(max) {
			max = r.Timestamp
		}
	}
	return max
}
