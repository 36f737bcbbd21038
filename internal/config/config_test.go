package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Errorf("logging defaults = (%s, %s), want (info, json)", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.ArtifactsDir != "." {
		t.Errorf("ArtifactsDir = %q, want .", cfg.ArtifactsDir)
	}
	if cfg.BatchGlob != "input*.csv" {
		t.Errorf("BatchGlob = %q, want input*.csv", cfg.BatchGlob)
	}
	if cfg.RedisStream != "maintenance:alerts" {
		t.Errorf("RedisStream = %q", cfg.RedisStream)
	}
	if cfg.Lookahead != 3 {
		t.Errorf("Lookahead = %d, want 3", cfg.Lookahead)
	}
	if cfg.HorizonMinutes != 60 {
		t.Errorf("HorizonMinutes = %v, want 60", cfg.HorizonMinutes)
	}
	if cfg.TempHigh != 80 || cfg.VibHigh != 0.2 || cfg.FanLow != 1200 || cfg.CurrentHigh != 12.0 {
		t.Errorf("threshold defaults = (%v, %v, %v, %v)",
			cfg.TempHigh, cfg.VibHigh, cfg.FanLow, cfg.CurrentHigh)
	}
	if cfg.ProbMedium != 0.4 || cfg.ProbHigh != 0.7 {
		t.Errorf("cutoff defaults = (%v, %v), want (0.4, 0.7)", cfg.ProbMedium, cfg.ProbHigh)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ARTIFACTS_DIR", "/var/lib/maintlab")
	t.Setenv("BATCH_GLOB", "batch_*.csv")
	t.Setenv("LOOKAHEAD_READINGS", "5")
	t.Setenv("HORIZON_MINUTES", "120")
	t.Setenv("PROB_CUTOFF_HIGH", "0.85")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.ArtifactsDir != "/var/lib/maintlab" {
		t.Errorf("ArtifactsDir = %q", cfg.ArtifactsDir)
	}
	if cfg.BatchGlob != "batch_*.csv" {
		t.Errorf("BatchGlob = %q", cfg.BatchGlob)
	}
	if cfg.Lookahead != 5 {
		t.Errorf("Lookahead = %d, want 5", cfg.Lookahead)
	}
	if cfg.HorizonMinutes != 120 {
		t.Errorf("HorizonMinutes = %v, want 120", cfg.HorizonMinutes)
	}
	if cfg.ProbHigh != 0.85 {
		t.Errorf("ProbHigh = %v, want 0.85", cfg.ProbHigh)
	}
}

func TestLoad_EmptyValueKeepsDefault(t *testing.T) {
	t.Setenv("HORIZON_MINUTES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HorizonMinutes != 60 {
		t.Errorf("HorizonMinutes = %v, want default 60", cfg.HorizonMinutes)
	}
}

func TestLoad_ParseErrors(t *testing.T) {
	t.Setenv("LOOKAHEAD_READINGS", "three")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for non-numeric LOOKAHEAD_READINGS")
	}
	if !strings.Contains(err.Error(), "LOOKAHEAD_READINGS") {
		t.Errorf("error should name the offending key: %v", err)
	}
}

func TestLoad_FloatParseError(t *testing.T) {
	t.Setenv("THRESHOLD_TEMP_HIGH", "hot")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for non-numeric THRESHOLD_TEMP_HIGH")
	}
	if !strings.Contains(err.Error(), "THRESHOLD_TEMP_HIGH") {
		t.Errorf("error should name the offending key: %v", err)
	}
}
