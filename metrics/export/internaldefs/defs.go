package internaldefs

import (
	"github.com/pathnova/sessiongate"
	"github.com/pathnova/sessiongate/session"
)

type CounterDef struct {
	ID   sessiongate.MetricID
	Name string
	Help string
}

type HistogramDef struct {
	ID   sessiongate.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: sessiongate.MetricIdentityFetchSuccess, Name: "sessiongate_identity_fetch_success_total", Help: "Identity fetches that resolved the session to present."},
	{ID: sessiongate.MetricIdentityFetchFailure, Name: "sessiongate_identity_fetch_failure_total", Help: "Identity fetches that resolved the session to absent."},
	{ID: sessiongate.MetricLogout, Name: "sessiongate_logout_total", Help: "Logout operations."},
	{ID: sessiongate.MetricLogoutRemoteFailure, Name: "sessiongate_logout_remote_failure_total", Help: "Logout operations whose remote call failed."},
	{ID: sessiongate.MetricTransitionDiscarded, Name: "sessiongate_transition_discarded_total", Help: "Session transitions rejected as stale or after close."},
	{ID: sessiongate.MetricGuardLoading, Name: "sessiongate_guard_loading_total", Help: "Guard decisions that served the loading placeholder."},
	{ID: sessiongate.MetricGuardRedirect, Name: "sessiongate_guard_redirect_total", Help: "Guard decisions that redirected to the public entry point."},
	{ID: sessiongate.MetricGuardRender, Name: "sessiongate_guard_render_total", Help: "Guard decisions that rendered protected content."},
}

var HistogramDefs = []HistogramDef{
	{ID: sessiongate.MetricIdentityFetchLatency, Name: "sessiongate_identity_fetch_latency_seconds", Help: "Identity fetch latency histogram."},
}

// AuditDroppedName is the counter of audit events lost to backpressure.
const AuditDroppedName = "sessiongate_audit_dropped_total"

// SessionStateName is a gauge set to 1 for the current state and 0 for the others.
const SessionStateName = "sessiongate_session_state"

// SessionStates lists the values of the "state" label in a stable order.
var SessionStates = []session.Status{
	session.StatusUnknown,
	session.StatusAbsent,
	session.StatusPresent,
}

// HistogramBounds are the upper bounds of the identity fetch buckets, in seconds.
var HistogramBounds = []string{
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"1",
	"2.5",
	"+Inf",
}

// HistogramBoundSuffix is HistogramBounds spelled for instrument names.
var HistogramBoundSuffix = []string{
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"1",
	"2_5",
	"inf",
}

func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}

// StateValue returns 1 when current is state, else 0.
func StateValue(current, state session.Status) uint64 {
	if current == state {
		return 1
	}
	return 0
}
