package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/ecokpi/internal/metrics"
)

// UserLookup resolves an upstream token to the user it belongs to.
//
//go:generate mockgen -source=service.go -destination=service_mock.go -package=auth
type UserLookup interface {
	GetUser(ctx context.Context, token string) (*User, error)
}

// Service exchanges identity provider tokens for data API tokens.
type Service struct {
	users   UserLookup
	issuer  *Issuer
	cache   Cache
	metrics *metrics.Metrics
}

func NewService(users UserLookup, issuer *Issuer, cache Cache, m *metrics.Metrics) *Service {
	return &Service{users: users, issuer: issuer, cache: cache, metrics: m}
}

type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Exchange validates upstreamToken with the identity provider and returns a
// data API token. A still-valid cached session for the same user is reused.
func (s *Service) Exchange(ctx context.Context, upstreamToken string) (*Token, error) {
	if upstreamToken == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetUser(ctx, upstreamToken)
	if err != nil {
		return nil, err
	}

	cached, ok, err := s.cache.Get(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("reading session cache: %w", err)
	}

	if ok {
		s.metrics.SessionCacheHit()
		return &Token{Token: cached.Token, ExpiresAt: cached.ExpiresAt}, nil
	}

	s.metrics.SessionCacheMiss()

	signed, expiresAt, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	session := &Session{UserID: user.ID, Email: user.Email, Token: signed, ExpiresAt: expiresAt}
	if err := s.cache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("writing session cache: %w", err)
	}

	return &Token{Token: signed, ExpiresAt: expiresAt}, nil
}

// Logout forgets the user's cached session. The issued token stays valid until it expires.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.cache.Delete(ctx, userID)
}

// Verify parses a data API token.
func (s *Service) Verify(token string) (*Claims, error) {
	return s.issuer.Parse(token)
}
