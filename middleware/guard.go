package middleware

import (
	"net/http"

	"github.com/pathnova/sessiongate"
)

type decisionSource interface {
	Decide() sessiongate.Decision
	GuardConfig() sessiongate.GuardConfig
}

// Guard gates next on the session held by store.
func Guard(store *sessiongate.Store) func(http.Handler) http.Handler {
	return GuardFromSource(store)
}

// GuardFromSource is Guard for any value that can produce decisions.
func GuardFromSource(source decisionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if source == nil {
				writeLoading(w, sessiongate.DefaultConfig().Guard)
				return
			}
			serveDecision(w, r, next, source.Decide(), source.GuardConfig())
		})
	}
}

func serveDecision(w http.ResponseWriter, r *http.Request, next http.Handler, d sessiongate.Decision, cfg sessiongate.GuardConfig) {
	switch d.Outcome {
	case sessiongate.OutcomeRender:
		ctx := sessiongate.WithIdentity(r.Context(), d.Identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	case sessiongate.OutcomeRedirect:
		status := cfg.RedirectStatus
		if status == 0 {
			status = http.StatusFound
		}
		w.Header().Set("Cache-Control", "no-store")
		http.Redirect(w, r, d.RedirectTo, status)
	default:
		writeLoading(w, cfg)
	}
}

func writeLoading(w http.ResponseWriter, cfg sessiongate.GuardConfig) {
	h := w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(cfg.LoadingBody))
}
