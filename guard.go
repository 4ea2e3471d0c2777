package sessiongate

import "github.com/pathnova/sessiongate/session"

// Decide maps a session value to a route guard decision. It is pure: the same
// inputs always produce the same decision and nothing is recorded.
//
//	unknown -> OutcomeLoading
//	absent  -> OutcomeRedirect to cfg.PublicEntryPoint
//	present -> OutcomeRender with the identity
func Decide(s session.Session, cfg GuardConfig) Decision {
	switch s.Status() {
	case session.StatusPresent:
		id, _ := s.Identity()
		return Decision{Outcome: OutcomeRender, Identity: id}
	case session.StatusAbsent:
		target := cfg.PublicEntryPoint
		if target == "" {
			target = "/"
		}
		return Decision{Outcome: OutcomeRedirect, RedirectTo: target}
	default:
		return Decision{Outcome: OutcomeLoading}
	}
}
