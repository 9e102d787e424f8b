package ports

import (
	"context"

	"github.com/modernmember/member-directory/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	FindBySubject(ctx context.Context, subjectID string, limit int64) ([]domain.AuditEvent, error)
}

// AuditSink accepts audit events for asynchronous recording. Submit must not
// block the request path; events may be dropped when the sink is saturated.
type AuditSink interface {
	Submit(event domain.AuditEvent)
}
