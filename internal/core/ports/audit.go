package ports

import (
	"context"

	"github.com/youcode/ebanking-api/internal/core/domain"
)

// AuditRecorder accepts audit events for asynchronous persistence.
// Implementations must not block the caller beyond enqueueing.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditRepository defines the persistence contract for audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	FindByActor(ctx context.Context, actor string, limit int64) ([]domain.AuditEvent, error)
}

type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
	RecentByActor(ctx context.Context, actor string, limit int64) ([]domain.AuditEvent, error)
}
