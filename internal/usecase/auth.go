package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jooshwells/nanta-mobile/internal/core/domain"
	"github.com/jooshwells/nanta-mobile/internal/core/port"
	"github.com/jooshwells/nanta-mobile/internal/infra/security"
	"github.com/jooshwells/nanta-mobile/internal/repository"
)

const defaultSessionTTL = time.Hour

var (
	// ErrInvalidCredentials covers wrong email, wrong password, or both.
	// The single sentinel keeps the login flow from leaking which check
	// failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated covers every session validation failure: missing,
	// malformed, tampered, expired, or wrong-type token, and a principal
	// that no longer exists. Collapsed deliberately.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// AuthService coordinates credential verification and session tokens.
type AuthService struct {
	accounts   port.AccountRepository
	codec      *security.TokenCodec
	sessionTTL time.Duration
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(accounts port.AccountRepository, codec *security.TokenCodec) *AuthService {
	return &AuthService{
		accounts:   accounts,
		codec:      codec,
		sessionTTL: defaultSessionTTL,
	}
}

// WithSessionTTL overrides the session token lifetime.
func (s *AuthService) WithSessionTTL(ttl time.Duration) *AuthService {
	if ttl > 0 {
		s.sessionTTL = ttl
	}
	return s
}

// SessionTTL exposes the configured session lifetime for cookie max-age.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Login verifies credentials and mints a session token. All failure paths
// return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.Account, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", domain.Account{}, ErrInvalidCredentials
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", domain.Account{}, ErrInvalidCredentials
		}
		return "", domain.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	ok, err := security.VerifyPassword(password, account.PasswordHash)
	if err != nil {
		return "", domain.Account{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", domain.Account{}, ErrInvalidCredentials
	}

	token, err := s.codec.Mint(security.TokenTypeSession, account.ID, account.Email, s.sessionTTL)
	if err != nil {
		return "", domain.Account{}, fmt.Errorf("mint session token: %w", err)
	}

	return token, account.Sanitized(), nil
}

// ResolveSession walks the session validation chain: decode the token, check
// the type claim, and resolve the principal. Exactly one directory read, no
// writes; safe to call concurrently. Every failure collapses to
// ErrUnauthenticated so callers cannot distinguish why a token was refused.
func (s *AuthService) ResolveSession(ctx context.Context, tokenString string) (*domain.Account, error) {
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.codec.Verify(tokenString)
	if err != nil {
		// Malformed, bad signature, and expired all look the same from
		// the outside.
		return nil, ErrUnauthenticated
	}

	if claims.Type != security.TokenTypeSession {
		return nil, ErrUnauthenticated
	}

	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve principal: %w", err)
	}

	return account, nil
}
