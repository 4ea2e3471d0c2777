package sessiongate

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pathnova/sessiongate/identity"
)

// Builder assembles a Store. Configure it during initialization, call Build
// once and discard it.
type Builder struct {
	config Config

	httpClient     *http.Client
	identityClient IdentityClient
	auditSink      AuditSink
	logger         *slog.Logger

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithHTTPClient sets the HTTP client used to reach the identity service. A
// client with a cookie jar carries the session cookie without
// IdentityConfig.SessionToken. Ignored when WithIdentityClient is used.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithIdentityClient replaces the HTTP identity client. The identity section
// of the configuration is then not validated.
func (b *Builder) WithIdentityClient(client IdentityClient) *Builder {
	b.identityClient = client
	return b
}

// WithAuditSink sets where audit events go when auditing is enabled.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the structured logger. The default discards everything.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the identity fetch latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a Store in the unknown
// state. The identity fetch does not start until Store.Initialize.
//
// Build returns ErrBuilderUsed on a second call, ErrIdentityClientRequired
// when there is no way to reach the identity service and an error wrapping
// ErrInvalidConfig for any invalid field.
func (b *Builder) Build() (*Store, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)

	client := b.identityClient
	if client == nil && strings.TrimSpace(cfg.Identity.BaseURL) == "" {
		return nil, ErrIdentityClientRequired
	}

	if err := cfg.validate(client == nil); err != nil {
		return nil, err
	}

	if client == nil {
		c, err := identity.NewClient(identityClientConfig(cfg.Identity), b.httpClient)
		if err != nil {
			return nil, err
		}
		client = c
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	b.built = true

	return newStore(cfg, client, logger, b.auditSink), nil
}

func identityClientConfig(c IdentityConfig) identity.Config {
	return identity.Config{
		BaseURL:           c.BaseURL,
		MePath:            c.MePath,
		LogoutPath:        c.LogoutPath,
		ProviderStartPath: c.ProviderStartPath,
		Timeout:           c.Timeout,
		SessionCookieName: c.SessionCookieName,
		SessionToken:      c.SessionToken,
		MaxResponseBytes:  c.MaxResponseBytes,
		UserAgent:         c.UserAgent,
	}
}
