// Package session defines the tri-state authentication session of a client and
// the identity record returned by the identity service.
//
// # States
//
// A [Session] is exactly one of Unknown, Absent or Present. The zero value is
// Unknown. An [Identity] can only be read from a Present session, so a
// session that carries an identity while not present cannot be constructed.
//
// # Transitions
//
//	unknown --fetch success--> present
//	unknown --fetch failure--> absent
//	unknown --logout-------->  absent
//	present --logout-------->  absent
//	absent  --logout-------->  absent
//
// [Session.CanTransition] is the single source of truth for this graph.
//
// # What this package must NOT do
//
//   - Import sessiongate, identity or middleware (no upward imports).
//   - Perform I/O.
//   - Hold mutable shared state; every value here is immutable once built.
package session
