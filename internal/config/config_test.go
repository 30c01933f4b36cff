package config

import (
	"testing"
	"time"

	"github.com/matchontv/reconcile/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("SPORTMONKS_TOKEN", "token-123")
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiresProviderToken(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SPORTMONKS_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without SPORTMONKS_TOKEN")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SPORTMONKS_TOKEN", "token-123")
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_ProviderDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SPORTMONKS_TOKEN", "token-123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SportMonksBaseURL != "https://api.sportmonks.com/v3/football" {
		t.Fatalf("unexpected base url: %q", cfg.SportMonksBaseURL)
	}
	if cfg.SportMonksPaceInterval != 200*time.Millisecond {
		t.Fatalf("unexpected pace interval: %s", cfg.SportMonksPaceInterval)
	}
	if cfg.SportMonksTimeout != 20*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.SportMonksTimeout)
	}
	if cfg.SportMonksMaxRetries != 1 {
		t.Fatalf("unexpected max retries: %d", cfg.SportMonksMaxRetries)
	}
	if !cfg.SportMonksCircuitEnabled {
		t.Fatalf("expected circuit breaker enabled by default")
	}
	if cfg.RecomputeMaxWorkers != 4 {
		t.Fatalf("unexpected recompute workers: %d", cfg.RecomputeMaxWorkers)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}

func TestLoad_ParsesOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("SPORTMONKS_TOKEN", "token-123")
	t.Setenv("SPORTMONKS_PACE_INTERVAL", "500ms")
	t.Setenv("SPORTMONKS_MAX_RETRIES", "3")
	t.Setenv("APP_LOG_LEVEL", "warn")
	t.Setenv("RECOMPUTE_MAX_WORKERS", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppEnv != EnvProd {
		t.Fatalf("unexpected app env: %q", cfg.AppEnv)
	}
	if cfg.SportMonksPaceInterval != 500*time.Millisecond {
		t.Fatalf("unexpected pace interval: %s", cfg.SportMonksPaceInterval)
	}
	if cfg.SportMonksMaxRetries != 3 {
		t.Fatalf("unexpected max retries: %d", cfg.SportMonksMaxRetries)
	}
	if cfg.LogLevel != logging.LevelWarn {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
	if cfg.RecomputeMaxWorkers != 8 {
		t.Fatalf("unexpected recompute workers: %d", cfg.RecomputeMaxWorkers)
	}
}

func TestLoad_RejectsNegativePace(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SPORTMONKS_TOKEN", "token-123")
	t.Setenv("SPORTMONKS_PACE_INTERVAL", "-100ms")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative pace interval")
	}
}
