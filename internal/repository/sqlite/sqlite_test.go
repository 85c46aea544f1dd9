package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/repository/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, sqlite.Migrate(db))
	return db
}

func createUser(t *testing.T, db *sql.DB, email string) *domain.User {
	t.Helper()

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	account := &domain.Account{
		ID:         uuid.NewString(),
		AccountID:  user.ID,
		ProviderID: domain.CredentialProvider,
		UserID:     user.ID,
		Password:   "hash",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, sqlite.NewUserRepository(db).CreateWithAccount(context.Background(), user, account))
	return user
}

func TestOpen_EnablesForeignKeys(t *testing.T) {
	db := newTestDB(t)

	var enabled int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	require.Equal(t, 1, enabled)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, sqlite.Migrate(db))

	for _, table := range []string{"users", "accounts", "sessions", "verifications", "tasks"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}
