package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/repository/sqlite"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/service"
)

func TestSignUp_Validation(t *testing.T) {
	auth := newAuthService(newTestDB(t))

	tests := []struct {
		name string
		in   service.SignUpInput
	}{
		{"bad email", service.SignUpInput{Email: "not-an-email", Password: "Passw0rd", ConfirmPassword: "Passw0rd"}},
		{"empty email", service.SignUpInput{Email: "  ", Password: "Passw0rd", ConfirmPassword: "Passw0rd"}},
		{"short password", service.SignUpInput{Email: "a@example.com", Password: "Pa0", ConfirmPassword: "Pa0"}},
		{"no upper case", service.SignUpInput{Email: "a@example.com", Password: "passw0rd", ConfirmPassword: "passw0rd"}},
		{"no lower case", service.SignUpInput{Email: "a@example.com", Password: "PASSW0RD", ConfirmPassword: "PASSW0RD"}},
		{"no digit", service.SignUpInput{Email: "a@example.com", Password: "Password", ConfirmPassword: "Password"}},
		{"mismatch", service.SignUpInput{Email: "a@example.com", Password: "Passw0rd", ConfirmPassword: "Passw0rd1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.SignUp(context.Background(), tt.in)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestSignUp_StoresHashedCredential(t *testing.T) {
	db := newTestDB(t)
	auth := newAuthService(db)

	user, err := auth.SignUp(context.Background(), service.SignUpInput{
		Email:           "  Alice@Example.COM ",
		Password:        "Passw0rd!",
		ConfirmPassword: "Passw0rd!",
		Name:            "Alice",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, "Alice", user.Name)

	account, err := sqlite.NewUserRepository(db).GetAccount(context.Background(), user.ID, domain.CredentialProvider)
	require.NoError(t, err)
	require.NotEqual(t, "Passw0rd!", account.Password)
	require.Equal(t, user.ID, account.AccountID)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	auth := newAuthService(newTestDB(t))
	signUp(t, auth, "alice@example.com")

	_, err := auth.SignUp(context.Background(), service.SignUpInput{
		Email:           "ALICE@example.com",
		Password:        "Passw0rd!",
		ConfirmPassword: "Passw0rd!",
	})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestSignIn(t *testing.T) {
	auth := newAuthService(newTestDB(t))
	user := signUp(t, auth, "alice@example.com")

	got, err := auth.SignIn(context.Background(), " ALICE@example.com", "Passw0rd!")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
}

func TestSignIn_FailuresAreIndistinguishable(t *testing.T) {
	auth := newAuthService(newTestDB(t))
	signUp(t, auth, "alice@example.com")

	_, wrongPassword := auth.SignIn(context.Background(), "alice@example.com", "Wrong0ne!")
	_, unknownEmail := auth.SignIn(context.Background(), "bob@example.com", "Passw0rd!")
	_, emptyPassword := auth.SignIn(context.Background(), "alice@example.com", "")

	for _, err := range []error{wrongPassword, unknownEmail, emptyPassword} {
		require.ErrorIs(t, err, domain.ErrUnauthorized)
		require.Equal(t, wrongPassword.Error(), err.Error())
	}
}

func TestGetUser(t *testing.T) {
	auth := newAuthService(newTestDB(t))
	user := signUp(t, auth, "alice@example.com")

	got, err := auth.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, got.Email)
}
