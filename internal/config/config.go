// Package config loads configuration from the environment. Every tunable
// of the forecasting engine has an explicit default matching the source
// system; nothing is re-derived.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration.
type Config struct {
	LogLevel  string
	LogFormat string

	// ArtifactsDir is the root for file-backed artifacts (encoders, models,
	// training history, feature corpus). Used when no database is configured.
	ArtifactsDir string

	// BatchGlob matches candidate batch files, processed in lexical order.
	BatchGlob string

	// PostgresDSN enables Postgres-backed encoder/model/history stores.
	PostgresDSN string

	// ClickhouseDSN enables the ClickHouse-backed feature corpus.
	ClickhouseDSN string

	// RedisAddr enables the Redis Streams alert notifier.
	RedisAddr   string
	RedisStream string

	// MetricsAddr enables the Prometheus /metrics listener when non-empty.
	MetricsAddr string

	// Lookahead is the classifier label window K, in readings.
	Lookahead int

	// HorizonMinutes clips regression targets and bounds the TTF display.
	HorizonMinutes float64

	// Diagnostic thresholds on raw sensor values.
	TempHigh    float64
	VibHigh     float64
	FanLow      float64
	CurrentHigh float64

	// Probability cutoffs for risk tiers and alert filtering.
	ProbMedium float64
	ProbHigh   float64
}

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		ArtifactsDir:  getEnv("ARTIFACTS_DIR", "."),
		BatchGlob:     getEnv("BATCH_GLOB", "input*.csv"),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		ClickhouseDSN: getEnv("CLICKHOUSE_DSN", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisStream:   getEnv("REDIS_STREAM", "maintenance:alerts"),
		MetricsAddr:   getEnv("METRICS_ADDR", ""),
	}

	var err error
	if cfg.Lookahead, err = getInt("LOOKAHEAD_READINGS", 3); err != nil {
		return nil, err
	}
	if cfg.HorizonMinutes, err = getFloat("HORIZON_MINUTES", 60); err != nil {
		return nil, err
	}
	if cfg.TempHigh, err = getFloat("THRESHOLD_TEMP_HIGH", 80); err != nil {
		return nil, err
	}
	if cfg.VibHigh, err = getFloat("THRESHOLD_VIB_HIGH", 0.2); err != nil {
		return nil, err
	}
	if cfg.FanLow, err = getFloat("THRESHOLD_FAN_LOW", 1200); err != nil {
		return nil, err
	}
	if cfg.CurrentHigh, err = getFloat("THRESHOLD_CURRENT_HIGH", 12.0); err != nil {
		return nil, err
	}
	if cfg.ProbMedium, err = getFloat("PROB_CUTOFF_MEDIUM", 0.4); err != nil {
		return nil, err
	}
	if cfg.ProbHigh, err = getFloat("PROB_CUTOFF_HIGH", 0.7); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s=%q: %w", key, v, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s=%q: %w", key, v, err)
	}
	return f, nil
}
