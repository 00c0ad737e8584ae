package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/visioncare/clinic-portal/internal/core/domain"
)

type stubAuditRepo struct {
	inserted  []domain.SessionEvent
	insertErr error
	lastLimit int
}

func (r *stubAuditRepo) Insert(_ context.Context, ev *domain.SessionEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, *ev)
	return nil
}

func (r *stubAuditRepo) Recent(_ context.Context, limit int) ([]domain.SessionEvent, error) {
	r.lastLimit = limit
	return r.inserted, nil
}

func TestAuditService_Process_StampsEvent(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	err := svc.Process(context.Background(), domain.SessionEvent{Profile: "p", Action: domain.ActionLogin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.inserted))
	}
	ev := repo.inserted[0]
	if ev.ID == "" || ev.Timestamp.IsZero() {
		t.Errorf("expected id and timestamp to be set, got %+v", ev)
	}
}

func TestAuditService_Process_KeepsGivenTimestamp(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())
	ts := time.Date(2025, 5, 15, 9, 15, 23, 0, time.UTC)

	_ = svc.Process(context.Background(), domain.SessionEvent{ID: "L001", Action: domain.ActionLogout, Timestamp: ts})

	if repo.inserted[0].ID != "L001" || !repo.inserted[0].Timestamp.Equal(ts) {
		t.Fatalf("event rewritten: %+v", repo.inserted[0])
	}
}

func TestAuditService_Process_UnknownAction(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	err := svc.Process(context.Background(), domain.SessionEvent{Action: "deleted_everything"})
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("invalid event must not be stored")
	}
}

func TestAuditService_Process_RepoError(t *testing.T) {
	repo := &stubAuditRepo{insertErr: errors.New("mongo unavailable")}
	svc := NewAuditService(repo, zerolog.Nop())

	if err := svc.Process(context.Background(), domain.SessionEvent{Action: domain.ActionLogin}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestAuditService_Recent_Limits(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	cases := []struct{ in, want int }{
		{0, 50},
		{-3, 50},
		{10, 10},
		{1000, 200},
	}
	for _, tc := range cases {
		if _, err := svc.Recent(context.Background(), tc.in); err != nil {
			t.Fatalf("Recent(%d): %v", tc.in, err)
		}
		if repo.lastLimit != tc.want {
			t.Errorf("Recent(%d): expected repo limit %d, got %d", tc.in, tc.want, repo.lastLimit)
		}
	}
}
