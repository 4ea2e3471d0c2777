package sessiongate

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pathnova/sessiongate/session"
)

const (
	auditEventFetchSuccess        = "identity_fetch_success"
	auditEventFetchFailure        = "identity_fetch_failure"
	auditEventLogout              = "logout"
	auditEventTransitionDiscarded = "transition_discarded"
)

// AuditErrorCode classifies the error carried by an audit event.
type AuditErrorCode string

const (
	auditErrFetchFailed  AuditErrorCode = "fetch_failed"
	auditErrFetchTimeout AuditErrorCode = "fetch_timeout"
	auditErrLogoutFailed AuditErrorCode = "logout_failed"
	auditErrStaleResult  AuditErrorCode = "stale_result"
	auditErrStoreClosed  AuditErrorCode = "store_closed"
)

func (s *Store) emitAudit(ctx context.Context, eventType string, from, to session.Session, success bool, code AuditErrorCode, metadata map[string]string) {
	if s == nil || s.audit == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		From:      from.Status().String(),
		To:        to.Status().String(),
		Success:   success,
		Error:     string(code),
		Metadata:  metadata,
	}
	if id, ok := to.Identity(); ok {
		event.IdentityID = id.ID
	} else if id, ok := from.Identity(); ok {
		event.IdentityID = id.ID
	}

	s.audit.Emit(ctx, event)
}

func fetchErrorCode(err error) AuditErrorCode {
	if errors.Is(err, context.DeadlineExceeded) {
		return auditErrFetchTimeout
	}
	return auditErrFetchFailed
}
