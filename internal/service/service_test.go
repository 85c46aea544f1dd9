package service_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/repository/sqlite"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/service"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(db))
	return db
}

func newAuthService(db *sql.DB) service.AuthService {
	return service.NewAuthService(sqlite.NewUserRepository(db), bcrypt.MinCost)
}

func signUp(t *testing.T, auth service.AuthService, email string) *domain.User {
	t.Helper()

	user, err := auth.SignUp(context.Background(), service.SignUpInput{
		Email:           email,
		Password:        "Passw0rd!",
		ConfirmPassword: "Passw0rd!",
	})
	require.NoError(t, err)
	return user
}
