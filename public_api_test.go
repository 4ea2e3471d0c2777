package sessiongate_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pathnova/sessiongate"
	"github.com/pathnova/sessiongate/middleware"
	"github.com/pathnova/sessiongate/session"
)

// Keeps the exported surface compile-compatible for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = sessiongate.New

	var _ *sessiongate.Store
	var _ sessiongate.Config
	var _ sessiongate.Decision
	var _ sessiongate.IdentityClient
	var _ sessiongate.ProviderURLBuilder
	var _ sessiongate.AuditSink
	var _ sessiongate.AuditSink = (*sessiongate.RedisStreamSink)(nil)
	var _ sessiongate.AuditSink = (*sessiongate.SlogSink)(nil)

	var _ error = sessiongate.ErrStoreClosed
	var _ error = sessiongate.ErrStoreNotReady
	var _ error = sessiongate.ErrBuilderUsed
	var _ error = sessiongate.ErrIdentityClientRequired
	var _ error = sessiongate.ErrInvalidConfig
	var _ error = sessiongate.ErrProviderUnavailable

	var _ func(*sessiongate.Store) func(http.Handler) http.Handler = middleware.Guard
	var _ func(*sessiongate.Store, time.Duration) func(http.Handler) http.Handler = middleware.RequireResolved

	var _ func(session.Session, sessiongate.GuardConfig) sessiongate.Decision = sessiongate.Decide
	var _ func(*sessiongate.Store, context.Context) = (*sessiongate.Store).Initialize
	var _ func(*sessiongate.Store, context.Context) = (*sessiongate.Store).Logout
	var _ func(*sessiongate.Store) session.Session = (*sessiongate.Store).Current
	var _ func(*sessiongate.Store, context.Context) (session.Session, error) = (*sessiongate.Store).Wait
	var _ func(*sessiongate.Store) (<-chan session.Session, func()) = (*sessiongate.Store).Subscribe
	var _ func(*sessiongate.Store) = (*sessiongate.Store).Close
}
