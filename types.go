package sessiongate

import (
	"context"

	"github.com/pathnova/sessiongate/session"
)

// IdentityClient is the remote identity service as seen by a Store.
// *identity.Client implements it.
type IdentityClient interface {
	// Me returns the identity of the current session credential. Any error
	// means "not authenticated".
	Me(ctx context.Context) (session.Identity, error)
	// Logout asks the service to end the session.
	Logout(ctx context.Context) error
}

// ProviderURLBuilder is implemented by identity clients that can build the
// full-page redirect URL that starts a provider sign-in.
type ProviderURLBuilder interface {
	ProviderStartURL(provider string) (string, error)
}

// Outcome is the result class of a route guard decision.
type Outcome uint8

const (
	// OutcomeLoading renders a placeholder: the session is not resolved yet.
	OutcomeLoading Outcome = iota
	// OutcomeRedirect navigates to the public entry point.
	OutcomeRedirect
	// OutcomeRender renders the guarded content.
	OutcomeRender
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeRender:
		return "render"
	default:
		return "invalid"
	}
}

// Decision is what the route guard resolved for one session value.
// RedirectTo is set only for OutcomeRedirect; Identity only for OutcomeRender.
type Decision struct {
	Outcome    Outcome
	RedirectTo string
	Identity   session.Identity
}
