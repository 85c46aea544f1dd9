package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/repository"
)

const (
	DefaultSessionTTL       = 7 * 24 * time.Hour
	DefaultSessionUpdateAge = 24 * time.Hour
	DefaultSessionCacheTTL  = 5 * time.Minute
)

// SessionMeta is request metadata recorded alongside a new session.
type SessionMeta struct {
	IPAddress string
	UserAgent string
}

// SessionService issues, validates and revokes opaque session tokens.
type SessionService interface {
	Issue(ctx context.Context, userID string, meta SessionMeta) (*domain.Session, error)
	// Validate resolves a raw token to its live session. The returned session
	// carries the token so callers can refresh the cookie.
	Validate(ctx context.Context, token string) (*domain.Session, error)
	// Revoke is idempotent; revoking an unknown token succeeds.
	Revoke(ctx context.Context, token string) error
}

type SessionConfig struct {
	TTL       time.Duration
	UpdateAge time.Duration
	Now       func() time.Time
	Logger    *logrus.Logger
}

type sessionService struct {
	sessions repository.SessionRepository
	cache    SessionCache
	cfg      SessionConfig
}

func NewSessionService(sessions repository.SessionRepository, cache SessionCache, cfg SessionConfig) SessionService {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	if cfg.UpdateAge <= 0 {
		cfg.UpdateAge = DefaultSessionUpdateAge
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cache == nil {
		cache = NewMemorySessionCache(0)
	}
	return &sessionService{
		sessions: sessions,
		cache:    cache,
		cfg:      cfg,
	}
}

func (s *sessionService) Issue(ctx context.Context, userID string, meta SessionMeta) (*domain.Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user", domain.ErrUnauthenticated)
	}

	token, err := generateToken(sessionTokenSize)
	if err != nil {
		return nil, err
	}

	now := s.cfg.Now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Token:     token,
		TokenHash: fingerprintToken(token),
		UserID:    userID,
		ExpiresAt: now.Add(s.cfg.TTL),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.cfg.Logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"user_id":    userID,
	}).Debug("session issued")
	return session, nil
}

func (s *sessionService) Validate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	key := fingerprintToken(token)
	now := s.cfg.Now().UTC()

	if cached, ok := s.cache.Get(key, now); ok && cached.Valid(now) {
		cached.Token = token
		cached.Renewed = false
		return cached, nil
	}

	session, err := s.sessions.GetByTokenHash(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}

	if !session.Valid(now) {
		s.cache.Delete(key)
		if err := s.sessions.DeleteByTokenHash(ctx, key); err != nil {
			s.cfg.Logger.WithError(err).WithField("session_id", session.ID).Warn("failed to delete expired session")
		}
		return nil, domain.ErrUnauthenticated
	}

	renewed := false
	if now.Sub(session.UpdatedAt) > s.cfg.UpdateAge {
		expiresAt := now.Add(s.cfg.TTL)
		if err := s.sessions.UpdateExpiry(ctx, session.ID, expiresAt, now); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrUnauthenticated
			}
			return nil, err
		}
		session.ExpiresAt = expiresAt
		session.UpdatedAt = now
		renewed = true
	}

	s.cache.Set(key, session, now)
	session.Token = token
	session.Renewed = renewed
	return session, nil
}

func (s *sessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	key := fingerprintToken(token)
	s.cache.Delete(key)
	return s.sessions.DeleteByTokenHash(ctx, key)
}
