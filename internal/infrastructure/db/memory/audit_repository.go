package memory

import (
	"context"
	"sync"

	"github.com/visioncare/clinic-portal/internal/core/domain"
)

const defaultAuditCapacity = 1000

// AuditRepository keeps the most recent events in a ring buffer.
type AuditRepository struct {
	mu     sync.Mutex
	events []domain.SessionEvent
	next   int
	full   bool
}

// NewAuditRepository holds at most capacity events; 0 selects 1000.
func NewAuditRepository(capacity int) *AuditRepository {
	if capacity <= 0 {
		capacity = defaultAuditCapacity
	}
	return &AuditRepository{events: make([]domain.SessionEvent, capacity)}
}

func (r *AuditRepository) Insert(_ context.Context, ev *domain.SessionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[r.next] = *ev
	r.next = (r.next + 1) % len(r.events)
	if r.next == 0 {
		r.full = true
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (r *AuditRepository) Recent(_ context.Context, limit int) ([]domain.SessionEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := r.next
	if r.full {
		size = len(r.events)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]domain.SessionEvent, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (r.next - i + len(r.events)) % len(r.events)
		out = append(out, r.events[idx])
	}
	return out, nil
}
