package sessiongate

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// DefaultAuditStream is the Redis stream key used when none is given.
const DefaultAuditStream = "pathnova:session-events"

// RedisStreamSink appends audit events to a Redis stream with XADD. Each entry
// has the fields "event_type" and "payload" (the JSON encoded event). Write
// failures are counted, never returned.
type RedisStreamSink struct {
	client   redis.UniversalClient
	stream   string
	maxLen   int64
	failures atomic.Uint64
}

// NewRedisStreamSink returns a sink writing to stream. maxLen > 0 caps the
// stream length with approximate trimming (MAXLEN ~), so the stream may hold
// somewhat more than maxLen entries but never fewer while it has that many.
func NewRedisStreamSink(client redis.UniversalClient, stream string, maxLen int64) *RedisStreamSink {
	stream = strings.TrimSpace(stream)
	if stream == "" {
		stream = DefaultAuditStream
	}
	if maxLen < 0 {
		maxLen = 0
	}
	return &RedisStreamSink{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

func (s *RedisStreamSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.client == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.failures.Add(1)
		return
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"event_type": event.EventType,
			"payload":    string(payload),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		s.failures.Add(1)
	}
}

// Stream returns the stream key.
func (s *RedisStreamSink) Stream() string {
	return s.stream
}

// Failures returns the number of events that could not be written.
func (s *RedisStreamSink) Failures() uint64 {
	if s == nil {
		return 0
	}
	return s.failures.Load()
}
