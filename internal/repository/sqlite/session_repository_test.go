package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/repository/sqlite"
)

func TestSessionRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewSessionRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice@example.com")
	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		TokenHash: "hash-1",
		UserID:    user.ID,
		ExpiresAt: now.Add(time.Hour),
		IPAddress: "127.0.0.1",
		UserAgent: "test",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.GetByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	require.Equal(t, session.ID, got.ID)
	require.Equal(t, "127.0.0.1", got.IPAddress)
	require.WithinDuration(t, session.ExpiresAt, got.ExpiresAt, time.Millisecond)

	later := now.Add(2 * time.Hour)
	require.NoError(t, repo.UpdateExpiry(ctx, session.ID, later, now.Add(time.Minute)))
	got, err = repo.GetByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	require.WithinDuration(t, later, got.ExpiresAt, time.Millisecond)

	require.NoError(t, repo.DeleteByTokenHash(ctx, "hash-1"))
	require.NoError(t, repo.DeleteByTokenHash(ctx, "hash-1"))
	_, err = repo.GetByTokenHash(ctx, "hash-1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewSessionRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice@example.com")
	now := time.Now().UTC()
	for i, expiresAt := range []time.Time{now.Add(-time.Hour), now.Add(-time.Second), now.Add(time.Hour)} {
		require.NoError(t, repo.Create(ctx, &domain.Session{
			ID:        uuid.NewString(),
			TokenHash: uuid.NewString(),
			UserID:    user.ID,
			ExpiresAt: expiresAt,
			CreatedAt: now,
			UpdatedAt: now,
		}), i)
	}

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	var left int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&left))
	require.Equal(t, 1, left)
}

func TestVerificationRepository_DeleteExpired(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewVerificationRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &domain.Verification{
		ID: uuid.NewString(), Identifier: "alice@example.com", Value: "old",
		ExpiresAt: now.Add(-time.Minute), CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repo.Create(ctx, &domain.Verification{
		ID: uuid.NewString(), Identifier: "alice@example.com", Value: "fresh",
		ExpiresAt: now.Add(time.Minute), CreatedAt: now, UpdatedAt: now,
	}))

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
