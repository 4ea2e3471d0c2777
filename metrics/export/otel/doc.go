// Package otel binds sessiongate metrics to OpenTelemetry observable
// instruments.
//
// [NewOTelExporter] registers an Int64ObservableCounter per counter, an
// Int64ObservableGauge per histogram bucket and a sessiongate_session_state
// gauge with a "state" attribute. One callback reads the store snapshot on
// each collection cycle.
//
// # What this package must NOT do
//
//   - Own the MeterProvider. Callers supply the Meter.
//   - Mutate store state.
package otel
