package session

import (
	"maps"
	"strings"
)

// Status is the coarse authentication state of a client.
type Status uint8

const (
	// StatusUnknown means the identity fetch has not resolved yet.
	StatusUnknown Status = iota
	// StatusAbsent means the client is not authenticated.
	StatusAbsent
	// StatusPresent means the identity service returned an identity.
	StatusPresent
)

// String returns the lowercase status name used in logs and audit events.
func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusAbsent:
		return "absent"
	case StatusPresent:
		return "present"
	default:
		return "invalid"
	}
}

// Identity is the authenticated user's profile as reported by the identity
// service. Fields other than id, name and email are kept in Attributes.
type Identity struct {
	ID         string
	Name       string
	Email      string
	Attributes map[string]any
}

// DisplayName returns Name, falling back to Email.
func (i Identity) DisplayName() string {
	if name := strings.TrimSpace(i.Name); name != "" {
		return name
	}
	return i.Email
}

// Clone returns a copy that shares no maps with i.
func (i Identity) Clone() Identity {
	out := i
	if i.Attributes != nil {
		out.Attributes = maps.Clone(i.Attributes)
	}
	return out
}

// Session is the authentication state of the running client. The zero value
// is an Unknown session.
type Session struct {
	status   Status
	identity Identity
}

// Unknown returns a session whose identity fetch has not resolved.
func Unknown() Session {
	return Session{status: StatusUnknown}
}

// Absent returns an unauthenticated session.
func Absent() Session {
	return Session{status: StatusAbsent}
}

// Present returns an authenticated session carrying a copy of identity.
func Present(identity Identity) Session {
	return Session{status: StatusPresent, identity: identity.Clone()}
}

// Status reports the session state.
func (s Session) Status() Status {
	return s.status
}

// Identity returns the identity and true when the session is present.
func (s Session) Identity() (Identity, bool) {
	if s.status != StatusPresent {
		return Identity{}, false
	}
	return s.identity.Clone(), true
}

// Resolved reports whether the session has left the Unknown state.
func (s Session) Resolved() bool {
	return s.status != StatusUnknown
}

// CanTransition reports whether the store may move from s to next.
func (s Session) CanTransition(next Session) bool {
	switch s.status {
	case StatusUnknown:
		return next.status == StatusPresent || next.status == StatusAbsent
	case StatusPresent, StatusAbsent:
		return next.status == StatusAbsent
	default:
		return false
	}
}

func (s Session) String() string {
	if s.status != StatusPresent {
		return s.status.String()
	}
	if s.identity.ID != "" {
		return "present(" + s.identity.ID + ")"
	}
	return "present(" + s.identity.DisplayName() + ")"
}
