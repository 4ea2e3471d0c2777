// Package prometheus renders sessiongate metrics in the Prometheus text
// exposition format.
//
// [NewPrometheusExporter] reads a [sessiongate.Store] and exposes an
// [http.Handler]. Counters are named sessiongate_*_total, the single
// histogram is sessiongate_identity_fetch_latency_seconds and
// sessiongate_session_state{state="..."} is a one-hot gauge of the current
// session state.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the Handler.
//   - Mutate store state.
package prometheus
