package sessiongate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pathnova/sessiongate/session"
)

// Store is the process-wide session store. It holds the tri-state session
// of the current client, fetches it once from the identity service and is
// the only writer of that value. All methods are safe for concurrent use.
//
// Create a Store with Builder.Build. A nil or zero-value Store reads as
// unknown and ignores every operation.
type Store struct {
	config  Config
	client  IdentityClient
	logger  *slog.Logger
	metrics *Metrics
	audit   *auditDispatcher

	initOnce sync.Once

	mu       sync.RWMutex
	current  session.Session
	closed   bool
	resolved chan struct{}
	done     chan struct{}
	subs     map[uint64]chan session.Session
	nextSub  uint64
}

func newStore(cfg Config, client IdentityClient, logger *slog.Logger, sink AuditSink) *Store {
	return &Store{
		config:   cfg,
		client:   client,
		logger:   logger,
		metrics:  NewMetrics(cfg.Metrics),
		audit:    newAuditDispatcher(cfg.Audit, sink),
		resolved: make(chan struct{}),
		done:     make(chan struct{}),
		subs:     make(map[uint64]chan session.Session),
	}
}

/*
====================================
LIFECYCLE
====================================
*/

// Initialize starts the single identity fetch on its own goroutine and
// returns immediately. The fetch outcome moves the session from unknown to
// present or absent; it is never reported to the caller. Only the first call
// has any effect. ctx bounds the fetch: a cancelled ctx resolves to absent.
func (s *Store) Initialize(ctx context.Context) {
	if s.unbuilt() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.initOnce.Do(func() {
		if s.isClosed() {
			return
		}
		go s.fetch(ctx)
	})
}

func (s *Store) fetch(ctx context.Context) {
	start := time.Now()
	id, err := s.client.Me(ctx)
	s.metrics.Observe(MetricIdentityFetchLatency, time.Since(start))

	next := session.Absent()
	if err != nil {
		s.metrics.Inc(MetricIdentityFetchFailure)
		s.logger.DebugContext(ctx, "identity fetch failed, session absent", "error", err)
	} else {
		s.metrics.Inc(MetricIdentityFetchSuccess)
		next = session.Present(id)
	}

	prev, ok := s.transition(next)
	if !ok {
		s.discarded(ctx, prev, next)
		return
	}

	if err != nil {
		s.emitAudit(ctx, auditEventFetchFailure, prev, next, false, fetchErrorCode(err), nil)
		return
	}
	s.logger.InfoContext(ctx, "session resolved", "identity_id", id.ID)
	s.emitAudit(ctx, auditEventFetchSuccess, prev, next, true, "", nil)
}

// Logout asks the identity service to end the session, waits for the
// answer, then sets the session to absent whatever the answer was. Remote
// failures are logged, counted and audited, never returned. Logout on a
// closed store does nothing.
func (s *Store) Logout(ctx context.Context) {
	if s.unbuilt() || s.isClosed() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.metrics.Inc(MetricLogout)

	var code AuditErrorCode
	if err := s.client.Logout(ctx); err != nil {
		code = auditErrLogoutFailed
		s.metrics.Inc(MetricLogoutRemoteFailure)
		s.logger.WarnContext(ctx, "remote logout failed, clearing session locally", "error", err)
	}

	next := session.Absent()
	prev, ok := s.transition(next)
	if !ok {
		s.discarded(ctx, prev, next)
		return
	}
	s.emitAudit(ctx, auditEventLogout, prev, next, code == "", code, nil)
}

// Close releases the store. Subscriber channels are closed, pending Wait
// calls return ErrStoreClosed and queued audit events are flushed for at
// most AuditConfig.CloseTimeout. An
// in-flight fetch is not aborted; its result is discarded. Close is
// idempotent.
func (s *Store) Close() {
	if s.unbuilt() {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	for key, ch := range s.subs {
		delete(s.subs, key)
		close(ch)
	}
	s.mu.Unlock()

	s.audit.Close()
	if n := s.audit.Abandoned(); n > 0 {
		s.logger.Warn("audit sink did not drain before close", "abandoned_events", n)
	}
}

/*
====================================
READERS
====================================
*/

// Current returns the session value at the time of the call. Before the
// fetch resolves it is unknown.
func (s *Store) Current() session.Session {
	if s == nil {
		return session.Unknown()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// Wait blocks until the session is resolved, ctx is done or the store is
// closed. It always returns the current session alongside the error.
func (s *Store) Wait(ctx context.Context) (session.Session, error) {
	if s.unbuilt() {
		return session.Unknown(), ErrStoreNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	select {
	case <-s.resolved:
		return s.Current(), nil
	default:
	}

	select {
	case <-s.resolved:
		return s.Current(), nil
	case <-s.done:
		return s.Current(), ErrStoreClosed
	case <-ctx.Done():
		return s.Current(), ctx.Err()
	}
}

// Subscribe returns a channel that receives the current session immediately
// and every later change. The channel holds only the latest value: a slow
// reader skips intermediate values but always sees the last one; an unread
// unknown is replaced by the resolved value. The returned func unsubscribes
// and closes the channel; Close closes it too.
func (s *Store) Subscribe() (<-chan session.Session, func()) {
	ch := make(chan session.Session, 1)
	if s.unbuilt() {
		ch <- session.Unknown()
		close(ch)
		return ch, func() {}
	}

	s.mu.Lock()
	ch <- s.current
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	key := s.nextSub
	s.nextSub++
	s.subs[key] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subs[key]; ok {
				delete(s.subs, key)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Decide evaluates the route guard against the current session and counts
// the outcome.
func (s *Store) Decide() Decision {
	if s.unbuilt() {
		return Decide(session.Unknown(), DefaultConfig().Guard)
	}
	d := Decide(s.Current(), s.GuardConfig())

	switch d.Outcome {
	case OutcomeLoading:
		s.metrics.Inc(MetricGuardLoading)
	case OutcomeRedirect:
		s.metrics.Inc(MetricGuardRedirect)
	case OutcomeRender:
		s.metrics.Inc(MetricGuardRender)
	}
	return d
}

// GuardConfig returns the guard section of the store configuration.
func (s *Store) GuardConfig() GuardConfig {
	if s.unbuilt() {
		return DefaultConfig().Guard
	}
	return s.config.Guard
}

// ProviderStartURL returns the URL a browser is sent to in order to begin
// sign-in with provider, e.g. "google".
func (s *Store) ProviderStartURL(provider string) (string, error) {
	if s.unbuilt() {
		return "", ErrStoreNotReady
	}
	builder, ok := s.client.(ProviderURLBuilder)
	if !ok {
		return "", ErrProviderUnavailable
	}
	return builder.ProviderStartURL(provider)
}

// MetricsSnapshot returns a copy of the store counters.
func (s *Store) MetricsSnapshot() MetricsSnapshot {
	if s == nil {
		return NewMetrics(MetricsConfig{}).Snapshot()
	}
	return s.metrics.Snapshot()
}

// AuditDropped returns the number of audit events dropped because the
// dispatcher buffer was full.
func (s *Store) AuditDropped() uint64 {
	if s == nil {
		return 0
	}
	return s.audit.Dropped()
}

/*
====================================
WRITER
====================================
*/

// transition is the only path that changes s.current. It reports the
// previous value and whether next was accepted. A repeated absent is
// accepted without notifying subscribers.
func (s *Store) transition(next session.Session) (session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current
	if s.closed || !prev.CanTransition(next) {
		return prev, false
	}
	if prev.Status() == session.StatusAbsent && next.Status() == session.StatusAbsent {
		return prev, true
	}

	s.current = next
	if prev.Status() == session.StatusUnknown {
		close(s.resolved)
	}
	for _, ch := range s.subs {
		publish(ch, next)
	}
	return prev, true
}

// publish replaces whatever value is pending in ch. Callers hold s.mu, so
// no other sender races for the slot.
func publish(ch chan session.Session, v session.Session) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}

func (s *Store) discarded(ctx context.Context, current, rejected session.Session) {
	s.metrics.Inc(MetricTransitionDiscarded)

	code := auditErrStaleResult
	if s.isClosed() {
		code = auditErrStoreClosed
	}
	s.logger.DebugContext(ctx, "session transition discarded",
		"current", current.Status().String(),
		"rejected", rejected.Status().String(),
		"reason", string(code),
	)
	s.emitAudit(ctx, auditEventTransitionDiscarded, current, rejected, false, code, nil)
}

// unbuilt reports a Store that did not come from Build.
func (s *Store) unbuilt() bool {
	return s == nil || s.done == nil
}

func (s *Store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
