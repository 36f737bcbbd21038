// Package main provides the incremental training entry point.
// Executes: ingest → feature engineering → encoding → corpus upsert →
// model bank update, one batch file at a time.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"maintlab/internal/config"
	"maintlab/internal/encoders"
	"maintlab/internal/learn"
	"maintlab/internal/logging"
	"maintlab/internal/modelbank"
	"maintlab/internal/observability"
	"maintlab/internal/storage"
	chstore "maintlab/internal/storage/clickhouse"
	fsstore "maintlab/internal/storage/fs"
	"maintlab/internal/storage/memory"
	"maintlab/internal/storage/migrations"
	pgstore "maintlab/internal/storage/postgres"
	"maintlab/internal/training"
)

func main() {
	batchGlob := flag.String("batch-glob", "", "Glob for batch CSV files (overrides BATCH_GLOB)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of configured backends")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *batchGlob != "" {
		cfg.BatchGlob = *batchGlob
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "train")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, cancelling run", zap.String("signal", sig.String()))
		cancel()
	}()

	metrics, promRegistry := observability.New()
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler(promRegistry))
			logger.Info("metrics server listening", zap.String("addr", cfg.MetricsAddr))
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server error", zap.Error(err))
			}
		}()
	}

	stores, cleanup, err := buildStores(ctx, cfg, *useMemory, logger)
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}
	defer cleanup()

	registry := encoders.NewRegistry(stores.encoders, logger)
	bank := modelbank.New(stores.models, modelbank.Config{
		Lookahead:      cfg.Lookahead,
		HorizonMinutes: cfg.HorizonMinutes,
		Ensemble:       learn.DefaultOptions(),
	}, logger)

	orch := training.New(training.Options{
		Registry:  registry,
		Features:  stores.features,
		Bank:      bank,
		History:   stores.history,
		BatchGlob: cfg.BatchGlob,
		Logger:    logger,
		Metrics:   metrics,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		logger.Fatal("training run failed", zap.Error(err))
	}

	for _, e := range result.Errors {
		logger.Warn("training issue", zap.String("detail", e))
	}
	logger.Info("training finished",
		zap.Int("files_discovered", result.FilesDiscovered),
		zap.Int("files_processed", result.FilesProcessed),
		zap.Int("files_skipped", result.FilesSkipped),
		zap.Int("samples", result.SamplesProcessed))
}

// stores groups the store interfaces the trainer needs.
type stores struct {
	encoders storage.EncoderStore
	models   storage.ModelStore
	history  storage.TrainingHistoryStore
	features storage.FeatureStore
}

// buildStores selects backends: in-memory when requested, Postgres and
// ClickHouse when their DSNs are configured, file-backed otherwise.
func buildStores(ctx context.Context, cfg *config.Config, useMemory bool, logger *zap.Logger) (*stores, func(), error) {
	cleanup := func() {}

	if useMemory {
		logger.Info("using in-memory storage")
		return &stores{
			encoders: memory.NewEncoderStore(),
			models:   memory.NewModelStore(),
			history:  memory.NewTrainingHistoryStore(),
			features: memory.NewFeatureStore(),
		}, cleanup, nil
	}

	files, err := fsstore.New(cfg.ArtifactsDir)
	if err != nil {
		return nil, nil, err
	}

	s := &stores{
		encoders: files.Encoders(),
		models:   files.Models(),
		history:  files.History(),
		features: files.Features(),
	}

	var closers []func()
	cleanup = func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			cleanup()
			return nil, nil, err
		}
		s.encoders = pgstore.NewEncoderStore(pool)
		s.models = pgstore.NewModelStore(pool)
		s.history = pgstore.NewTrainingHistoryStore(pool)
		logger.Info("using postgres storage")
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { conn.Close() })
		s.features = chstore.NewFeatureStore(conn)
		logger.Info("using clickhouse feature corpus")
	}

	return s, cleanup, nil
}
