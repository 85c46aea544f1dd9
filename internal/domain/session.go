package domain

import "time"

// Session is a server-side login session. Token is only populated when the
// session is issued; storage keeps the fingerprint in TokenHash.
type Session struct {
	ID        string
	Token     string
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	IPAddress string
	UserAgent string
	CreatedAt time.Time
	UpdatedAt time.Time
	// Renewed is set by validation when the expiry was just extended.
	Renewed bool
}

// Valid reports whether the session has not yet expired at now.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && now.Before(s.ExpiresAt)
}

// Verification holds a short-lived verification value (email confirmation and
// similar flows).
type Verification struct {
	ID         string
	Identifier string
	Value      string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
