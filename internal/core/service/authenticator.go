package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/visioncare/clinic-portal/internal/core/domain"
	"github.com/visioncare/clinic-portal/internal/core/ports"
)

// Authenticator checks credentials against the known-identity list.
type Authenticator struct {
	repo ports.AccountRepository
}

func NewAuthenticator(repo ports.AccountRepository) *Authenticator {
	return &Authenticator{repo: repo}
}

// Authenticate returns the credential-free identity for a matching pair.
// Unknown emails and wrong credentials are indistinguishable to the caller.
func (a *Authenticator) Authenticate(ctx context.Context, email, credential string) (*domain.Identity, error) {
	if email == "" || credential == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := a.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(credential)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	id := account.Identity
	return &id, nil
}

// HashAccounts turns demo accounts into directory entries with bcrypt hashes.
// A cost of 0 selects bcrypt.DefaultCost.
func HashAccounts(demo []domain.DemoAccount, cost int) ([]domain.Account, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out := make([]domain.Account, 0, len(demo))
	for _, d := range demo {
		if !d.Identity.Role.Valid() {
			return nil, fmt.Errorf("hash account %s: %w", d.Identity.Email, domain.ErrInvalidRole)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(d.Credential), cost)
		if err != nil {
			return nil, fmt.Errorf("hash account %s: %w", d.Identity.Email, err)
		}
		out = append(out, domain.Account{Identity: d.Identity, PasswordHash: string(hash)})
	}
	return out, nil
}
