package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/visioncare/clinic-portal/internal/core/domain"
	"github.com/visioncare/clinic-portal/internal/core/ports"
	"github.com/visioncare/clinic-portal/internal/infrastructure/metrics"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

var ErrUnknownAction = errors.New("unknown audit action")

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log, now: time.Now}
}

// Process stamps and persists a single audit event.
func (s *auditService) Process(ctx context.Context, ev domain.SessionEvent) error {
	switch ev.Action {
	case domain.ActionLogin, domain.ActionLoginFailed, domain.ActionLogout, domain.ActionAccessDenied:
	default:
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("process audit event: %w: %q", ErrUnknownAction, ev.Action)
	}

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.now().UTC()
	}

	if err := s.repo.Insert(ctx, &ev); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("process audit event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues("stored").Inc()
	s.log.Debug().
		Str("profile", ev.Profile).
		Str("action", string(ev.Action)).
		Msg("audit event stored")
	return nil
}

// Recent returns the newest events. limit defaults to 50 and is capped at 200.
func (s *auditService) Recent(ctx context.Context, limit int) ([]domain.SessionEvent, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	events, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}
