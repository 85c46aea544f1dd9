package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/repository"
)

// SignUpInput carries a registration request.
type SignUpInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
}

// AuthService registers users and checks their credentials. It never issues
// sessions; callers pair it with SessionService.
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type authService struct {
	users      repository.UserRepository
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(users repository.UserRepository, bcryptCost int) AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		users:      users,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      strings.TrimSpace(in.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	account := &domain.Account{
		ID:         uuid.NewString(),
		AccountID:  user.ID,
		ProviderID: domain.CredentialProvider,
		UserID:     user.ID,
		Password:   string(hash),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// the unique index still guards against a concurrent sign-up with the same email
	if err := s.users.CreateWithAccount(ctx, user, account); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	account, err := s.users.GetAccount(ctx, user.ID, domain.CredentialProvider)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if account.Password == "" {
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	return user, nil
}

func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
