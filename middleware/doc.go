// Package middleware exposes HTTP adapters for the session route guard.
//
// # Guards
//
//   - [Guard] renders the decision of the store as it is at request time.
//   - [RequireResolved] first waits a bounded time for the session to resolve,
//     so a request that races the initial identity fetch is not answered with
//     the loading placeholder.
//
// Every guard maps a [sessiongate.Decision] to HTTP:
//
//   - loading: 200 with the configured placeholder body and Cache-Control: no-store.
//   - redirect: http.Redirect to the public entry point.
//   - render: the identity is attached to the request context and the wrapped
//     handler runs.
//
// # Architecture boundaries
//
// This package translates decisions into HTTP responses. The decision itself
// comes from [sessiongate.Decide] through the store.
//
// # What this package must NOT do
//
//   - Call the identity service.
//   - Change the session (logout is a store operation).
//   - Run the wrapped handler for anything but a render decision.
package middleware
