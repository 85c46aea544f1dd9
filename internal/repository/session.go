package repository

import (
	"context"
	"time"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
)

// SessionRepository persists login sessions keyed by token fingerprint.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateExpiry(ctx context.Context, id string, expiresAt, updatedAt time.Time) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// VerificationRepository manages verification values.
type VerificationRepository interface {
	Create(ctx context.Context, v *domain.Verification) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
