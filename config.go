package sessiongate

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config holds every tunable of a Store. Obtain defaults from DefaultConfig
// and override fields before passing it to Builder.WithConfig.
type Config struct {
	Identity IdentityConfig
	Guard    GuardConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
IDENTITY CONFIG
====================================
*/

// IdentityConfig locates the remote identity service.
type IdentityConfig struct {
	BaseURL           string
	MePath            string
	LogoutPath        string
	ProviderStartPath string // must contain "{provider}"
	Timeout           time.Duration
	SessionCookieName string
	SessionToken      string
	MaxResponseBytes  int64
	UserAgent         string
}

/*
====================================
GUARD CONFIG
====================================
*/

// GuardConfig controls how the route guard renders its three outcomes.
type GuardConfig struct {
	PublicEntryPoint string
	RedirectStatus   int
	LoadingBody      string
}

// AuditConfig controls the asynchronous audit dispatcher.
//
// SinkTimeout bounds each AuditSink.Emit call. CloseTimeout bounds how long
// Store.Close waits for queued events; past it the remaining deliveries are
// cancelled. Zero selects the default for either.
type AuditConfig struct {
	Enabled      bool
	BufferSize   int
	DropIfFull   bool
	SinkTimeout  time.Duration
	CloseTimeout time.Duration
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration used when none is supplied. The
// identity BaseURL has no default and must be set.
func DefaultConfig() Config {
	return Config{
		Identity: IdentityConfig{
			MePath:            "/auth/me",
			LogoutPath:        "/auth/logout",
			ProviderStartPath: "/auth/{provider}/start",
			Timeout:           10 * time.Second,
			SessionCookieName: "session",
			MaxResponseBytes:  1 << 20,
			UserAgent:         "pathnova-sessiongate",
		},
		Guard: GuardConfig{
			PublicEntryPoint: "/",
			RedirectStatus:   http.StatusFound,
			LoadingBody:      "Loading...",
		},
		Audit: AuditConfig{
			Enabled:      false,
			BufferSize:   256,
			DropIfFull:   true,
			SinkTimeout:  defaultAuditSinkTimeout,
			CloseTimeout: defaultAuditCloseTimeout,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	return c.validate(true)
}

// validate skips the identity section when the caller supplies its own
// identity client.
func (c *Config) validate(withIdentity bool) error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if withIdentity {
		if err := c.Identity.validate(); err != nil {
			return err
		}
	}
	if err := c.Guard.validate(); err != nil {
		return err
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return invalid("Audit BufferSize must be > 0 when audit is enabled")
	}
	if c.Audit.SinkTimeout < 0 || c.Audit.CloseTimeout < 0 {
		return invalid("Audit timeouts must be >= 0")
	}
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return invalid("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}
	return nil
}

func (c IdentityConfig) validate() error {
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		return invalid("Identity BaseURL is required")
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("Identity BaseURL must be an absolute http(s) URL")
	}
	for name, path := range map[string]string{
		"MePath":            c.MePath,
		"LogoutPath":        c.LogoutPath,
		"ProviderStartPath": c.ProviderStartPath,
	} {
		if !strings.HasPrefix(path, "/") {
			return invalid("Identity " + name + " must start with '/'")
		}
	}
	if !strings.Contains(c.ProviderStartPath, "{provider}") {
		return invalid("Identity ProviderStartPath must contain {provider}")
	}
	if c.Timeout <= 0 {
		return invalid("Identity Timeout must be > 0")
	}
	if strings.TrimSpace(c.SessionCookieName) == "" {
		return invalid("Identity SessionCookieName is required")
	}
	if c.MaxResponseBytes <= 0 {
		return invalid("Identity MaxResponseBytes must be > 0")
	}
	return nil
}

func (c GuardConfig) validate() error {
	if !strings.HasPrefix(c.PublicEntryPoint, "/") || strings.HasPrefix(c.PublicEntryPoint, "//") {
		return invalid("Guard PublicEntryPoint must be a local path")
	}
	switch c.RedirectStatus {
	case http.StatusFound, http.StatusSeeOther, http.StatusTemporaryRedirect:
	default:
		return invalid("Guard RedirectStatus must be 302, 303 or 307")
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}
