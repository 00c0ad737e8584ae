package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/visioncare/clinic-portal/internal/core/domain"
	"github.com/visioncare/clinic-portal/internal/core/ports"
	"github.com/visioncare/clinic-portal/internal/infrastructure/metrics"
)

// SessionStore is the single source of truth for who is using each browser
// profile. Login and Logout are the only writers of durable storage; Restore
// is the only reader.
type SessionStore struct {
	storage  ports.SessionStorage
	auth     ports.Authenticator
	audit    ports.AuditRecorder
	validate *validator.Validate
	delay    time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// SessionOption customises a SessionStore.
type SessionOption func(*SessionStore)

// WithLoginDelay makes Login wait d before checking credentials. The wait is
// abandoned when the request context ends.
func WithLoginDelay(d time.Duration) SessionOption {
	return func(s *SessionStore) { s.delay = d }
}

// WithAuditRecorder sends session activity to r.
func WithAuditRecorder(r ports.AuditRecorder) SessionOption {
	return func(s *SessionStore) { s.audit = r }
}

func NewSessionStore(storage ports.SessionStorage, auth ports.Authenticator, log zerolog.Logger, opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		storage:  storage,
		auth:     auth,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore reads the profile's saved identity. Missing, unreadable or malformed
// records all mean "not authenticated"; Restore never fails.
func (s *SessionStore) Restore(ctx context.Context, profile string) *domain.Identity {
	data, err := s.storage.Load(ctx, domain.SessionRecordKey(profile))
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			s.log.Warn().Err(err).Str("profile", profile).Msg("session record unreadable, treating as signed out")
		}
		metrics.SessionRestoresTotal.WithLabelValues("miss").Inc()
		return nil
	}

	id, err := s.decode(data)
	if err != nil {
		s.log.Warn().Err(err).Str("profile", profile).Msg("discarding corrupt session record")
		metrics.SessionRestoresTotal.WithLabelValues("corrupt").Inc()
		return nil
	}

	metrics.SessionRestoresTotal.WithLabelValues("hit").Inc()
	return id
}

func (s *SessionStore) decode(data []byte) (*domain.Identity, error) {
	var id domain.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidIdentity, err)
	}
	if err := s.validate.Struct(&id); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidIdentity, err)
	}
	return &id, nil
}

// Login checks the credential pair and, on success, replaces the profile's
// identity. A mismatch returns domain.ErrInvalidCredentials and leaves storage
// untouched.
func (s *SessionStore) Login(ctx context.Context, profile, email, credential string) (*domain.Identity, error) {
	if err := s.wait(ctx); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("cancelled").Inc()
		return nil, err
	}

	id, err := s.auth.Authenticate(ctx, email, credential)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			s.record(domain.SessionEvent{Profile: profile, Action: domain.ActionLoginFailed, Email: email})
			s.log.Info().Str("profile", profile).Str("email", email).Msg("login rejected")
			return nil, err
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	// The caller may have gone away while we were checking; drop the result.
	if err := ctx.Err(); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("cancelled").Inc()
		return nil, err
	}

	data, err := json.Marshal(id)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: encode identity: %w", err)
	}
	if err := s.storage.Save(ctx, domain.SessionRecordKey(profile), data); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: persist session: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.record(domain.SessionEvent{Profile: profile, Action: domain.ActionLogin, Email: id.Email, Role: id.Role})
	s.log.Info().Str("profile", profile).Str("user_id", id.ID).Str("role", id.Role.String()).Msg("login succeeded")

	return id, nil
}

// Logout forgets the profile's identity. Logging out a signed-out profile is
// a no-op.
func (s *SessionStore) Logout(ctx context.Context, profile string) error {
	if err := s.storage.Delete(ctx, domain.SessionRecordKey(profile)); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	metrics.LogoutsTotal.Inc()
	s.record(domain.SessionEvent{Profile: profile, Action: domain.ActionLogout})
	s.log.Info().Str("profile", profile).Msg("session closed")
	return nil
}

func (s *SessionStore) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *SessionStore) record(ev domain.SessionEvent) {
	if s.audit == nil {
		return
	}
	ev.Timestamp = s.now().UTC()
	s.audit.Record(ev)
}
