package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/repository"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO sessions (id, token_hash, user_id, expires_at, ip_address, user_agent, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.TokenHash,
		session.UserID,
		session.ExpiresAt.UTC(),
		session.IPAddress,
		session.UserAgent,
		session.CreatedAt.UTC(),
		session.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: session token collision", domain.ErrConflict)
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	var session domain.Session
	err := r.db.QueryRowContext(ctx, `
SELECT id, token_hash, user_id, expires_at, ip_address, user_agent, created_at, updated_at
FROM sessions
WHERE token_hash = ?`,
		tokenHash,
	).Scan(
		&session.ID,
		&session.TokenHash,
		&session.UserID,
		&session.ExpiresAt,
		&session.IPAddress,
		&session.UserAgent,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	session.ExpiresAt = session.ExpiresAt.UTC()
	session.CreatedAt = session.CreatedAt.UTC()
	session.UpdatedAt = session.UpdatedAt.UTC()
	return &session, nil
}

func (r *SessionRepository) UpdateExpiry(ctx context.Context, id string, expiresAt, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE sessions
SET expires_at=?, updated_at=?
WHERE id=?`,
		expiresAt.UTC(),
		updatedAt.UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update session expiry: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("session update rows affected: %w", err)
	}
	if aff == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByTokenHash removes the session if present. Missing rows are not an error.
func (r *SessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash=?`, tokenHash); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
