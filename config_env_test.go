package sessiongate

import (
	"errors"
	"testing"
	"time"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PATHNOVA_API_BASE", "http://127.0.0.1:8080")
	t.Setenv("PATHNOVA_SESSION_TOKEN", "token-123")
	t.Setenv("PATHNOVA_IDENTITY_TIMEOUT", "3s")
	t.Setenv("PATHNOVA_PUBLIC_ENTRY", "/auth")
	t.Setenv("PATHNOVA_AUDIT_ENABLED", "true")
	t.Setenv("PATHNOVA_AUDIT_REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("PATHNOVA_METRICS_ENABLED", "false")
	t.Setenv("PATHNOVA_LOG_LEVEL", "debug")

	cfg, env, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv failed: %v", err)
	}

	if cfg.Identity.BaseURL != "http://127.0.0.1:8080" || cfg.Identity.SessionToken != "token-123" {
		t.Fatalf("unexpected identity config %+v", cfg.Identity)
	}
	if cfg.Identity.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", cfg.Identity.Timeout)
	}
	if cfg.Guard.PublicEntryPoint != "/auth" {
		t.Fatalf("expected /auth entry point, got %q", cfg.Guard.PublicEntryPoint)
	}
	if !cfg.Audit.Enabled || cfg.Metrics.Enabled {
		t.Fatalf("unexpected toggles audit=%v metrics=%v", cfg.Audit.Enabled, cfg.Metrics.Enabled)
	}
	if env.AuditRedisAddr != "127.0.0.1:6379" || env.AuditRedisStream != DefaultAuditStream {
		t.Fatalf("unexpected redis settings %+v", env)
	}
	if env.LogLevel != "debug" {
		t.Fatalf("expected debug log level, got %q", env.LogLevel)
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("PATHNOVA_API_BASE", "https://api.pathnova.test")

	cfg, env, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv failed: %v", err)
	}
	if cfg.Identity.Timeout != 10*time.Second || cfg.Guard.PublicEntryPoint != "/" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Audit.Enabled || !cfg.Metrics.Enabled || env.LogLevel != "info" {
		t.Fatalf("unexpected default toggles %+v", env)
	}
}

func TestConfigFromEnvErrors(t *testing.T) {
	t.Run("missing base", func(t *testing.T) {
		t.Setenv("PATHNOVA_API_BASE", "")
		if _, _, err := ConfigFromEnv(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("PATHNOVA_API_BASE", "https://api.pathnova.test")
		t.Setenv("PATHNOVA_IDENTITY_TIMEOUT", "soon")
		_, _, err := ConfigFromEnv()
		if err == nil || errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("expected parse error, got %v", err)
		}
	})
}
