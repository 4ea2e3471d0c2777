package sessiongate

import (
	"context"

	"github.com/pathnova/sessiongate/session"
)

type identityContextKey struct{}

// WithIdentity attaches the identity of a rendered guard decision to ctx.
// The guard middleware calls it before invoking the protected handler.
func WithIdentity(ctx context.Context, id session.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns the identity attached by WithIdentity.
func IdentityFromContext(ctx context.Context) (session.Identity, bool) {
	if ctx == nil {
		return session.Identity{}, false
	}

	id, ok := ctx.Value(identityContextKey{}).(session.Identity)
	return id, ok
}
