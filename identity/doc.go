// Package identity is the HTTP client for the remote identity service that owns
// PathNova sessions.
//
// The client knows three endpoints: the "who am I" endpoint (GET /auth/me by
// default), the logout endpoint (POST /auth/logout) and the provider handoff
// (GET /auth/<provider>/start), of which only the URL is built here.
//
// # Error model
//
// Every failure of [Client.Me] wraps [ErrFetchFailed]: transport errors,
// non-2xx responses and malformed payloads are one class of error to callers.
// [Client.Logout] failures wrap [ErrLogoutFailed].
//
// # What this package must NOT do
//
//   - Retry, poll or refresh. One call is one request.
//   - Hold session state; that belongs to sessiongate.Store.
//   - Import sessiongate (no upward imports).
package identity
