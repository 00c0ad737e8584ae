package ports

import (
	"context"

	"github.com/visioncare/clinic-portal/internal/core/domain"
)

// AccountRepository is the known-identity list consulted on login.
type AccountRepository interface {
	// FindByEmail returns domain.ErrAccountNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
}
