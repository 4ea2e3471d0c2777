// Package internal contains helpers private to sessiongate.
//
// # Sub-packages
//
//   - identitytest: in-process fake identity service for tests and the demo
//   - logging: slog construction and level parsing
//
// # What this package must NOT do
//
//   - Export types that appear in the public sessiongate API.
package internal
