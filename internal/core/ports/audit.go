package ports

import (
	"context"

	"github.com/visioncare/clinic-portal/internal/core/domain"
)

// AuditRepository persists the session audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.SessionEvent) error
	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]domain.SessionEvent, error)
}

// AuditRecorder accepts events without blocking the caller.
type AuditRecorder interface {
	Record(event domain.SessionEvent)
}

// AuditService validates and stores audit events and serves the logs view.
type AuditService interface {
	Process(ctx context.Context, event domain.SessionEvent) error
	Recent(ctx context.Context, limit int) ([]domain.SessionEvent, error)
}
