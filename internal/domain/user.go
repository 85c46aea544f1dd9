package domain

import "time"

// CredentialProvider identifies password-based accounts.
const CredentialProvider = "credential"

// User represents a registered user of the system.
type User struct {
	ID            string
	Email         string
	Name          string
	EmailVerified bool
	Image         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Account links a user to an authentication provider. For the credential
// provider Password holds the bcrypt hash.
type Account struct {
	ID         string
	AccountID  string
	ProviderID string
	UserID     string
	Password   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
