// Package modelbank maintains the five per-failure-type model pairs.
// Each update trains fresh models from the corpus and replaces the
// persisted artifacts wholesale; one failure type's error never blocks
// the others.
package modelbank

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"maintlab/internal/domain"
	"maintlab/internal/learn"
	"maintlab/internal/storage"
)

// Config holds the training tunables.
type Config struct {
	// Lookahead is the forward window K, in readings, for the classifier
	// label.
	Lookahead int

	// HorizonMinutes clips the regression target when no failure of the
	// type remains in a machine's sequence.
	HorizonMinutes float64

	// Ensemble configures the tree learners.
	Ensemble learn.Options
}

// DefaultConfig returns the source defaults: K=3, 60 minute horizon.
func DefaultConfig() Config {
	return Config{
		Lookahead:      3,
		HorizonMinutes: 60,
		Ensemble:       learn.DefaultOptions(),
	}
}

// Bank trains and persists the failure-type models.
type Bank struct {
	store  storage.ModelStore
	cfg    Config
	logger *zap.Logger
}

// New creates a model bank over a model store.
func New(store storage.ModelStore, cfg Config, logger *zap.Logger) *Bank {
	return &Bank{store: store, cfg: cfg, logger: logger}
}

// UpdateResult summarizes one model bank update.
type UpdateResult struct {
	ClassifiersTrained int
	RegressorsTrained  int
	ClassifiersSkipped []domain.FailureType
	Errors             []string
}

// Update retrains every failure type from the corpus. Each type's artifacts
// are persisted as soon as that type's training completes. Per-type errors
// are collected on the result; only an empty corpus is reported directly.
func (b *Bank) Update(ctx context.Context, corpus []*domain.FeatureVector) (*UpdateResult, error) {
	result := &UpdateResult{}
	if len(corpus) == 0 {
		return result, nil
	}

	sorted := sortCorpus(corpus)
	inputs := make([][]float64, len(sorted))
	for i, v := range sorted {
		inputs[i] = v.Values()
	}

	for _, ft := range domain.AllFailureTypes {
		if err := b.updateClassifier(ctx, ft, sorted, inputs, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("classifier %s: %v", ft, err))
			b.logger.Error("classifier training failed",
				zap.String("failure_type", string(ft)), zap.Error(err))
		}
		if err := b.updateRegressor(ctx, ft, sorted, inputs, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("regressor %s: %v", ft, err))
			b.logger.Error("regressor training failed",
				zap.String("failure_type", string(ft)), zap.Error(err))
		}
	}

	return result, nil
}

func (b *Bank) updateClassifier(ctx context.Context, ft domain.FailureType, corpus []*domain.FeatureVector, inputs [][]float64, result *UpdateResult) error {
	labels := classifierLabels(corpus, ft, b.cfg.Lookahead)

	if singleClass(labels) {
		result.ClassifiersSkipped = append(result.ClassifiersSkipped, ft)
		b.logger.Warn("insufficient positive samples, skipping classifier",
			zap.String("failure_type", string(ft)), zap.Int("samples", len(labels)))
		return nil
	}

	clf, err := learn.TrainClassifier(inputs, labels, b.cfg.Ensemble)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	if err := b.store.SaveClassifier(ctx, ft, clf); err != nil {
		return fmt.Errorf("persist: %w", err)
	}

	result.ClassifiersTrained++
	b.logger.Info("classifier trained",
		zap.String("failure_type", string(ft)),
		zap.Int("samples", len(labels)),
		zap.Int("positives", countPositives(labels)))
	return nil
}

func (b *Bank) updateRegressor(ctx context.Context, ft domain.FailureType, corpus []*domain.FeatureVector, inputs [][]float64, result *UpdateResult) error {
	targets := regressionTargets(corpus, ft, b.cfg.HorizonMinutes)

	reg, err := learn.TrainRegressor(inputs, targets, b.cfg.Ensemble)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	if err := b.store.SaveRegressor(ctx, ft, reg); err != nil {
		return fmt.Errorf("persist: %w", err)
	}

	result.RegressorsTrained++
	b.logger.Info("regressor trained",
		zap.String("failure_type", string(ft)), zap.Int("samples", len(targets)))
	return nil
}

func countPositives(labels []int) int {
	var n int
	for _, l := range labels {
		n += l
	}
	return n
}
