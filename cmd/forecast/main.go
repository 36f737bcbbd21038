// Package main provides the risk forecast entry point.
// Scores every machine's latest state against the model bank, writes the
// risk report and dispatches alerts for Medium and High risk machines.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"maintlab/internal/alerting"
	"maintlab/internal/config"
	"maintlab/internal/forecast"
	"maintlab/internal/logging"
	"maintlab/internal/observability"
	"maintlab/internal/reporting"
	"maintlab/internal/storage"
	chstore "maintlab/internal/storage/clickhouse"
	fsstore "maintlab/internal/storage/fs"
	"maintlab/internal/storage/memory"
	"maintlab/internal/storage/migrations"
	pgstore "maintlab/internal/storage/postgres"
)

func main() {
	outputDir := flag.String("output-dir", ".", "Output directory for generated reports")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of configured backends")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "forecast")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, cancelling run", zap.String("signal", sig.String()))
		cancel()
	}()

	metrics, _ := observability.New()

	stores, cleanup, err := buildStores(ctx, cfg, *useMemory, logger)
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}
	defer cleanup()

	generator := forecast.New(stores.features, stores.models, forecast.Params{
		ProbHigh:       cfg.ProbHigh,
		ProbMedium:     cfg.ProbMedium,
		HorizonMinutes: cfg.HorizonMinutes,
		TempHigh:       cfg.TempHigh,
		VibHigh:        cfg.VibHigh,
		FanLow:         cfg.FanLow,
		CurrentHigh:    cfg.CurrentHigh,
	}, logger)

	assessments, err := generator.Generate(ctx)
	if err != nil {
		logger.Fatal("forecast failed", zap.Error(err))
	}
	metrics.AssessmentsGenerated.Add(float64(len(assessments)))

	report, err := reporting.NewGenerator(stores.history).Generate(ctx, assessments)
	if err != nil {
		logger.Fatal("report generation failed", zap.Error(err))
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Fatal("create output dir", zap.Error(err))
	}
	csvPath := filepath.Join(*outputDir, "machine_risk_report.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Rows)), 0o644); err != nil {
		logger.Fatal("write risk report csv", zap.Error(err))
	}
	mdPath := filepath.Join(*outputDir, "MACHINE_RISK_REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		logger.Fatal("write risk report markdown", zap.Error(err))
	}
	logger.Info("risk report written",
		zap.String("csv", csvPath), zap.String("markdown", mdPath))

	history, err := stores.history.List(ctx)
	if err != nil {
		logger.Fatal("load training history", zap.Error(err))
	}

	payload := alerting.BuildPayload(assessments, history, cfg.ProbMedium)
	metrics.AlertsEmitted.Add(float64(len(payload.Alerts)))

	notifier, closeNotifier := buildNotifier(cfg, logger)
	defer closeNotifier()

	alerting.NewDispatcher(notifier, logger).Dispatch(ctx, payload)
}

// buildNotifier returns the Redis Streams notifier when configured, the
// log-backed one otherwise.
func buildNotifier(cfg *config.Config, logger *zap.Logger) (alerting.Notifier, func()) {
	if cfg.RedisAddr == "" {
		return alerting.NewLogNotifier(logger), func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	logger.Info("alerts publishing to redis stream",
		zap.String("addr", cfg.RedisAddr), zap.String("stream", cfg.RedisStream))
	return alerting.NewRedisNotifier(client, cfg.RedisStream), func() { client.Close() }
}

// stores groups the store interfaces the forecaster needs.
type stores struct {
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
