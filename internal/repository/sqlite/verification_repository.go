package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/repository"
)

type VerificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(db *sql.DB) repository.VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Create(ctx context.Context, v *domain.Verification) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO verifications (id, identifier, value, expires_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID,
		v.Identifier,
		v.Value,
		v.ExpiresAt.UTC(),
		v.CreatedAt.UTC(),
		v.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert verification: %w", err)
	}
	return nil
}

func (r *VerificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM verifications WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired verifications: %w", err)
	}
	return res.RowsAffected()
}
