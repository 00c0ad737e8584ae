package memory

import (
	"context"

	"github.com/visioncare/clinic-portal/internal/core/domain"
)

// AccountRepository is a fixed known-identity list.
type AccountRepository struct {
	byEmail map[string]domain.Account
}

// NewAccountRepository indexes accounts by email. Later duplicates win.
func NewAccountRepository(accounts []domain.Account) *AccountRepository {
	r := &AccountRepository{byEmail: make(map[string]domain.Account, len(accounts))}
	for _, a := range accounts {
		r.byEmail[a.Email] = a
	}
	return r
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	a, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}
