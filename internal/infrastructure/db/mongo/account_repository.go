package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/visioncare/clinic-portal/internal/core/domain"
)

const collectionAccounts = "clinic_accounts"

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

type mongoAccount struct {
	ID           string `bson:"_id"`
	Name         string `bson:"name"`
	Email        string `bson:"email"`
	Role         string `bson:"role"`
	PasswordHash string `bson:"password_hash"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoAccount
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	return &domain.Account{
		Identity: domain.Identity{
			ID:    ma.ID,
			Name:  ma.Name,
			Email: ma.Email,
			Role:  domain.Role(ma.Role),
		},
		PasswordHash: ma.PasswordHash,
	}, nil
}

// Seed upserts the given accounts by id so repeated starts stay idempotent.
func (r *AccountRepository) Seed(ctx context.Context, accounts []domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().Unix()
	for _, a := range accounts {
		doc := mongoAccount{
			ID:           a.ID,
			Name:         a.Name,
			Email:        a.Email,
			Role:         a.Role.String(),
			PasswordHash: a.PasswordHash,
			UpdatedAt:    now,
		}
		_, err := r.col.ReplaceOne(ctx, bson.M{"_id": a.ID}, doc, options.Replace().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("seed account %s: %w", a.Email, err)
		}
	}
	return nil
}

// EnsureIndexes makes email unique.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
