package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pathnova/sessiongate"
	"github.com/pathnova/sessiongate/session"
)

type fakeSource struct {
	snapshot sessiongate.MetricsSnapshot
	dropped  uint64
	current  session.Session
}

func (f fakeSource) MetricsSnapshot() sessiongate.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                         { return f.dropped }
func (f fakeSource) Current() session.Session                     { return f.current }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: sessiongate.MetricsSnapshot{
			Counters:   map[sessiongate.MetricID]uint64{},
			Histograms: map[sessiongate.MetricID][]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderIncludesCounterHistogramAndState(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: sessiongate.MetricsSnapshot{
			Counters: map[sessiongate.MetricID]uint64{
				sessiongate.MetricIdentityFetchSuccess: 1,
				sessiongate.MetricGuardRender:          7,
			},
			Histograms: map[sessiongate.MetricID][]uint64{
				sessiongate.MetricIdentityFetchLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
		current: session.Present(session.Identity{Name: "Ada"}),
	})

	out := exp.Render()
	for _, want := range []string{
		"sessiongate_identity_fetch_success_total 1",
		"sessiongate_guard_render_total 7",
		"sessiongate_logout_total 0",
		`sessiongate_identity_fetch_latency_seconds_bucket{le="0.025"} 1`,
		`sessiongate_identity_fetch_latency_seconds_bucket{le="+Inf"} 36`,
		"sessiongate_identity_fetch_latency_seconds_count 36",
		"sessiongate_audit_dropped_total 2",
		`sessiongate_session_state{state="present"} 1`,
		`sessiongate_session_state{state="unknown"} 0`,
		"# TYPE sessiongate_session_state gauge",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestRenderOmitsHistogramWhenLatencyDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: sessiongate.MetricsSnapshot{
			Counters:   map[sessiongate.MetricID]uint64{sessiongate.MetricLogout: 1},
			Histograms: map[sessiongate.MetricID][]uint64{},
		},
	})

	out := exp.Render()
	if strings.Contains(out, "latency_seconds") {
		t.Fatalf("expected no histogram, got:\n%s", out)
	}
	if !strings.Contains(out, `sessiongate_session_state{state="unknown"} 1`) {
		t.Fatalf("expected unknown state, got:\n%s", out)
	}
}

type stubClient struct{}

func (stubClient) Me(context.Context) (session.Identity, error) {
	return session.Identity{ID: "u-1", Email: "ada@example.com"}, nil
}

func (stubClient) Logout(context.Context) error { return nil }

func TestExporterReadsStore(t *testing.T) {
	store, err := sessiongate.New().WithIdentityClient(stubClient{}).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer store.Close()

	store.Initialize(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := store.Wait(ctx); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	out := NewPrometheusExporter(store).Render()
	if !strings.Contains(out, "sessiongate_identity_fetch_success_total 1") {
		t.Fatalf("expected fetch success, got:\n%s", out)
	}
	if !strings.Contains(out, `sessiongate_session_state{state="present"} 1`) {
		t.Fatalf("expected present state, got:\n%s", out)
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: sessiongate.MetricsSnapshot{
			Counters:   map[sessiongate.MetricID]uint64{sessiongate.MetricLogout: 1},
			Histograms: map[sessiongate.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: sessiongate.MetricsSnapshot{
			Counters: map[sessiongate.MetricID]uint64{
				sessiongate.MetricIdentityFetchSuccess: 1,
				sessiongate.MetricGuardRender:          800,
				sessiongate.MetricGuardRedirect:        40,
			},
			Histograms: map[sessiongate.MetricID][]uint64{
				sessiongate.MetricIdentityFetchLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
	})

	b.ReportAllocs()
	for b.Loop() {
		_ = exp.Render()
	}
}
