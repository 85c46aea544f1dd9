package service

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
)

const (
	minPasswordLength = 8
	minTitleLength    = 3
	maxTitleLength    = 255
)

var validate = validator.New()

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	switch {
	case !upper:
		return fmt.Errorf("%w: password must contain an upper-case letter", domain.ErrValidation)
	case !lower:
		return fmt.Errorf("%w: password must contain a lower-case letter", domain.ErrValidation)
	case !digit:
		return fmt.Errorf("%w: password must contain a digit", domain.ErrValidation)
	}
	return nil
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	n := utf8.RuneCountInString(title)
	if n < minTitleLength {
		return "", fmt.Errorf("%w: title must be at least %d characters", domain.ErrValidation, minTitleLength)
	}
	if n > maxTitleLength {
		return "", fmt.Errorf("%w: title must be at most %d characters", domain.ErrValidation, maxTitleLength)
	}
	return title, nil
}

func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	d := strings.TrimSpace(*description)
	if d == "" {
		return nil
	}
	return &d
}

func validateStatus(status domain.TaskStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	return nil
}

// CanonicalTaskID rejects identifiers that are not UUIDs and returns the
// lower-case hyphenated form ids are stored in.
func CanonicalTaskID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: invalid task id", domain.ErrValidation)
	}
	return parsed.String(), nil
}
