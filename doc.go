// Package sessiongate tracks whether the current client has an authenticated
// session with a remote identity service and decides, per route, whether to
// show a loading placeholder, redirect to the public entry point or render
// guarded content.
//
// A [Store] is safe for concurrent use after construction through
// [Builder.Build]. It starts Unknown, resolves exactly once via
// [Store.Initialize] and only moves to Absent afterwards via [Store.Logout].
//
// # Architecture boundaries
//
// sessiongate is the public surface. It exposes [Store], [Builder], [Config],
// [Decide] and the audit sinks. The session value lives in package session,
// the HTTP identity client in package identity and the HTTP adapters in
// package middleware.
//
// # What this package must NOT do
//
//   - Persist the session; the identity service owns it and the store only
//     mirrors its answer for the life of the process.
//   - Surface fetch errors to callers. Every failure resolves to Absent and is
//     reported through metrics, logs and audit events only.
//   - Let a stale fetch result overwrite a newer Logout or a closed store.
//   - Import middleware, metrics/export or cmd (no import cycles).
//
// # Performance contract
//
// [Store.Current] and [Store.Decide] are the hot path. They take a read lock,
// perform no I/O and do not allocate beyond the returned value.
package sessiongate
