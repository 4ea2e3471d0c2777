package sessiongate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultAuditSinkTimeout  = 2 * time.Second
	defaultAuditCloseTimeout = 5 * time.Second
)

// auditDispatcher moves session audit events off the store's goroutines and
// into one delivery goroutine. Every sink call runs under SinkTimeout, and a
// sink that stays stuck past CloseTimeout is abandoned by Close.
type auditDispatcher struct {
	sink         AuditSink
	queue        chan AuditEvent
	dropIfFull   bool
	sinkTimeout  time.Duration
	closeTimeout time.Duration

	// base parents every delivery; cancelling it aborts the one in flight.
	base   context.Context
	cancel context.CancelFunc

	stopping  chan struct{}
	finished  chan struct{}
	closing   atomic.Bool
	closeOnce sync.Once

	dropped   atomic.Uint64
	abandoned atomic.Uint64
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &auditDispatcher{
		sink:         sink,
		queue:        make(chan AuditEvent, max(cfg.BufferSize, 1)),
		dropIfFull:   cfg.DropIfFull,
		sinkTimeout:  cfg.SinkTimeout,
		closeTimeout: cfg.CloseTimeout,
		stopping:     make(chan struct{}),
		finished:     make(chan struct{}),
	}
	if d.sinkTimeout <= 0 {
		d.sinkTimeout = defaultAuditSinkTimeout
	}
	if d.closeTimeout <= 0 {
		d.closeTimeout = defaultAuditCloseTimeout
	}
	d.base, d.cancel = context.WithCancel(context.Background())

	go d.run()
	return d
}

func (d *auditDispatcher) run() {
	defer close(d.finished)

	for {
		select {
		case event := <-d.queue:
			d.deliver(event)
		case <-d.stopping:
			d.drain()
			return
		}
	}
}

// drain delivers what is left in the queue until it is empty or Close gives
// up on it.
func (d *auditDispatcher) drain() {
	for d.base.Err() == nil {
		select {
		case event := <-d.queue:
			d.deliver(event)
		default:
			return
		}
	}
	d.abandoned.Add(uint64(len(d.queue)))
}

func (d *auditDispatcher) deliver(event AuditEvent) {
	ctx, cancel := context.WithTimeout(d.base, d.sinkTimeout)
	defer cancel()
	d.sink.Emit(ctx, event)
}

// Emit queues event. With DropIfFull a full queue drops the event and counts
// it; otherwise Emit waits for room, ctx cancellation or Close.
func (d *auditDispatcher) Emit(ctx context.Context, event AuditEvent) {
	if d == nil || d.closing.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.dropIfFull {
		select {
		case d.queue <- event:
		case <-d.stopping:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
	case <-d.stopping:
	}
}

// Close flushes queued events and stops the delivery goroutine. If the flush
// outlasts the close timeout the in-flight delivery is cancelled and Close
// returns without waiting for a sink that ignores its context.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closing.Store(true)
		close(d.stopping)

		timer := time.NewTimer(d.closeTimeout)
		defer timer.Stop()

		select {
		case <-d.finished:
		case <-timer.C:
			d.cancel()
		}
		d.cancel()
	})
}

func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

// Abandoned reports events still queued when Close gave up on the sink.
func (d *auditDispatcher) Abandoned() uint64 {
	if d == nil {
		return 0
	}
	return d.abandoned.Load()
}
