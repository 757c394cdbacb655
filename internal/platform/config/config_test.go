package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServiceName != "crowdfund" || cfg.HTTPPort != "8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.StorageBackend != StorageMemory {
		t.Fatalf("expected memory backend, got %q", cfg.StorageBackend)
	}
	if cfg.MaxPageSize != 100 || cfg.OutboxBatchSize != 100 {
		t.Fatalf("unexpected sizes: %+v", cfg)
	}
	if cfg.OutboxPollInterval != 2*time.Second {
		t.Fatalf("unexpected poll interval %s", cfg.OutboxPollInterval)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("unexpected log level %s", cfg.LogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVICE_NAME", "registry")
	t.Setenv("STORAGE_BACKEND", " Postgres ")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/crowdfund")
	t.Setenv("MAX_PAGE_SIZE", "25")
	t.Setenv("OUTBOX_POLL_INTERVAL", "500ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServiceName != "registry" || cfg.StorageBackend != StoragePostgres {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.MaxPageSize != 25 || cfg.OutboxPollInterval != 500*time.Millisecond {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("expected debug level, got %s", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"postgres without dsn": {"STORAGE_BACKEND": "postgres"},
		"unknown backend":      {"STORAGE_BACKEND": "redis"},
		"zero page size":       {"MAX_PAGE_SIZE": "0"},
		"malformed page size":  {"MAX_PAGE_SIZE": "many"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			for key, value := range vars {
				t.Setenv(key, value)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected load to fail")
			}
		})
	}
}
