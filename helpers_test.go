package sessiongate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pathnova/sessiongate/session"
)

// fakeIdentityClient answers Me from a scripted result. When release is
// non-nil Me blocks until it is closed or ctx is done.
type fakeIdentityClient struct {
	identity  session.Identity
	meErr     error
	logoutErr error
	release   chan struct{}

	meCalls     atomic.Int64
	logoutCalls atomic.Int64
}

func (f *fakeIdentityClient) Me(ctx context.Context) (session.Identity, error) {
	f.meCalls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return session.Identity{}, ctx.Err()
		}
	}
	if f.meErr != nil {
		return session.Identity{}, f.meErr
	}
	return f.identity, nil
}

func (f *fakeIdentityClient) Logout(context.Context) error {
	f.logoutCalls.Add(1)
	return f.logoutErr
}

type providerFakeClient struct {
	fakeIdentityClient
}

func (p *providerFakeClient) ProviderStartURL(provider string) (string, error) {
	return "https://api.pathnova.test/auth/" + provider + "/start", nil
}

var errRemote = errors.New("remote unavailable")

func ada() session.Identity {
	return session.Identity{ID: "u-1", Name: "Ada", Email: "ada@example.com"}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Identity.BaseURL = "https://api.pathnova.test"
	return cfg
}

func buildTestStore(t testing.TB, client IdentityClient, sink AuditSink, mutate func(*Config)) *Store {
	t.Helper()

	cfg := testConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	store, err := New().
		WithConfig(cfg).
		WithIdentityClient(client).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

func waitResolved(t testing.TB, store *Store) session.Session {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s, err := store.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	return s
}

type captureSink struct {
	mu     sync.Mutex
	events []AuditEvent
	notify chan struct{}
}

func newCaptureSink() *captureSink {
	return &captureSink{notify: make(chan struct{}, 64)}
}

func (s *captureSink) Emit(_ context.Context, event AuditEvent) {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *captureSink) Events() []AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]AuditEvent(nil), s.events...)
}

func (s *captureSink) waitFor(t *testing.T, n int) []AuditEvent {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		if events := s.Events(); len(events) >= n {
			return events
		}
		select {
		case <-s.notify:
		case <-deadline:
			t.Fatalf("expected %d audit events, got %d", n, len(s.Events()))
		}
	}
}
