package sessiongate

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvConfig mirrors the environment variables understood by ConfigFromEnv.
type EnvConfig struct {
	APIBase          string        `env:"PATHNOVA_API_BASE"`
	SessionToken     string        `env:"PATHNOVA_SESSION_TOKEN"`
	IdentityTimeout  time.Duration `env:"PATHNOVA_IDENTITY_TIMEOUT" envDefault:"10s"`
	PublicEntryPoint string        `env:"PATHNOVA_PUBLIC_ENTRY" envDefault:"/"`
	AuditEnabled     bool          `env:"PATHNOVA_AUDIT_ENABLED" envDefault:"false"`
	AuditRedisAddr   string        `env:"PATHNOVA_AUDIT_REDIS_ADDR"`
	AuditRedisStream string        `env:"PATHNOVA_AUDIT_REDIS_STREAM" envDefault:"pathnova:session-events"`
	MetricsEnabled   bool          `env:"PATHNOVA_METRICS_ENABLED" envDefault:"true"`
	LogLevel         string        `env:"PATHNOVA_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv reads EnvConfig from the process environment.
func ParseEnv() (EnvConfig, error) {
	var out EnvConfig
	if err := env.Parse(&out); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return out, nil
}

// Apply overlays the environment values on cfg.
func (e EnvConfig) Apply(cfg Config) Config {
	if e.APIBase != "" {
		cfg.Identity.BaseURL = e.APIBase
	}
	if e.SessionToken != "" {
		cfg.Identity.SessionToken = e.SessionToken
	}
	if e.IdentityTimeout > 0 {
		cfg.Identity.Timeout = e.IdentityTimeout
	}
	if e.PublicEntryPoint != "" {
		cfg.Guard.PublicEntryPoint = e.PublicEntryPoint
	}
	cfg.Audit.Enabled = e.AuditEnabled
	cfg.Metrics.Enabled = e.MetricsEnabled
	return cfg
}

// ConfigFromEnv returns DefaultConfig overlaid with the environment and validated.
func ConfigFromEnv() (Config, EnvConfig, error) {
	e, err := ParseEnv()
	if err != nil {
		return Config{}, EnvConfig{}, err
	}
	cfg := e.Apply(DefaultConfig())
	if err := cfg.Validate(); err != nil {
		return Config{}, EnvConfig{}, err
	}
	return cfg, e, nil
}
