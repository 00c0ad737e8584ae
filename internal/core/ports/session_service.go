package ports

import (
	"context"

	"github.com/visioncare/clinic-portal/internal/core/domain"
)

// SessionService is the session store as seen by the transport layer.
// Every operation is scoped to one browser profile.
type SessionService interface {
	Restore(ctx context.Context, profile string) *domain.Identity
	Login(ctx context.Context, profile, email, credential string) (*domain.Identity, error)
	Logout(ctx context.Context, profile string) error
}

// Authenticator checks a credential pair against the known-identity list.
type Authenticator interface {
	Authenticate(ctx context.Context, email, credential string) (*domain.Identity, error)
}
