package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/pathnova/sessiongate"
	"github.com/pathnova/sessiongate/session"
)

type waitingSource interface {
	decisionSource
	Wait(ctx context.Context) (session.Session, error)
}

// RequireResolved gates next like Guard, but a request that arrives while
// the session is unknown waits up to maxWait for it to resolve. If it is
// still unknown afterwards the loading placeholder is served.
func RequireResolved(store *sessiongate.Store, maxWait time.Duration) func(http.Handler) http.Handler {
	return RequireResolvedFromSource(store, maxWait)
}

// RequireResolvedFromSource is RequireResolved for any waiting source.
func RequireResolvedFromSource(source waitingSource, maxWait time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if source == nil {
				writeLoading(w, sessiongate.DefaultConfig().Guard)
				return
			}

			if maxWait > 0 {
				ctx, cancel := context.WithTimeout(r.Context(), maxWait)
				_, _ = source.Wait(ctx)
				cancel()
			}

			serveDecision(w, r, next, source.Decide(), source.GuardConfig())
		})
	}
}
