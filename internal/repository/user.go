package repository

import (
	"context"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
)

// UserRepository defines persistence operations for users and their
// credential accounts.
type UserRepository interface {
	// CreateWithAccount stores the user and its first account atomically.
	CreateWithAccount(ctx context.Context, user *domain.User, account *domain.Account) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetAccount(ctx context.Context, userID, providerID string) (*domain.Account, error)
	Delete(ctx context.Context, id string) error
}
