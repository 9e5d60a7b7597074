package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jooshwells/nanta-mobile/internal/core/domain"
	"github.com/jooshwells/nanta-mobile/internal/core/port"
	"github.com/jooshwells/nanta-mobile/internal/infra/security"
	"github.com/jooshwells/nanta-mobile/internal/repository"
)

// ErrInvalidVerificationToken covers every confirm failure: wrong token
// type, unresolvable account, or a mismatch against the stored copy. One
// sentinel, one external message.
var ErrInvalidVerificationToken = errors.New("invalid verification token")

// VerificationService mints and confirms email-verification tokens. The
// signed token alone is necessary but not sufficient: confirmation also
// requires byte-for-byte equality with the copy stored on the account,
// which is what makes each token single-use.
type VerificationService struct {
	accounts        port.AccountRepository
	codec           *security.TokenCodec
	events          port.EventPublisher
	verificationTTL time.Duration
	logger          *zap.Logger
}

// NewVerificationService constructs a verification service.
func NewVerificationService(accounts port.AccountRepository, codec *security.TokenCodec, events port.EventPublisher) *VerificationService {
	return &VerificationService{
		accounts:        accounts,
		codec:           codec,
		events:          events,
		verificationTTL: defaultVerificationTTL,
		logger:          zap.NewNop(),
	}
}

// WithVerificationTTL overrides the email-verification token lifetime.
func (s *VerificationService) WithVerificationTTL(ttl time.Duration) *VerificationService {
	if ttl > 0 {
		s.verificationTTL = ttl
	}
	return s
}

// WithLogger attaches a structured logger.
func (s *VerificationService) WithLogger(logger *zap.Logger) *VerificationService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Resend mints a fresh verification token for the principal and overwrites
// the stored copy, which immediately invalidates any earlier unexpired
// token. Concurrent resends race on the overwrite; last writer wins and
// that is the intended behavior, not something to serialize.
func (s *VerificationService) Resend(ctx context.Context, principal domain.Account) (string, error) {
	token, err := s.codec.Mint(security.TokenTypeEmailVerification, principal.ID, principal.Email, s.verificationTTL)
	if err != nil {
		return "", fmt.Errorf("mint verification token: %w", err)
	}

	if err := s.accounts.SetVerificationToken(ctx, principal.ID, token); err != nil {
		return "", fmt.Errorf("store verification token: %w", err)
	}

	return token, nil
}

// Confirm validates a verification token and flips the account to verified.
// The stored token is cleared in the same write, so replaying the consumed
// token string fails the equality check.
func (s *VerificationService) Confirm(ctx context.Context, tokenString string) (domain.Account, error) {
	if tokenString == "" {
		return domain.Account{}, ErrInvalidVerificationToken
	}

	claims, err := s.codec.Verify(tokenString)
	if err != nil {
		return domain.Account{}, ErrInvalidVerificationToken
	}

	if claims.Type != security.TokenTypeEmailVerification {
		return domain.Account{}, ErrInvalidVerificationToken
	}

	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrInvalidVerificationToken
		}
		return domain.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	// The stored copy is the source of truth. A reissued token overwrote
	// it; a consumed token cleared it. Either way the presented string no
	// longer matches and the confirm fails.
	if account.VerificationToken == nil || *account.VerificationToken != tokenString {
		return domain.Account{}, ErrInvalidVerificationToken
	}

	if err := s.accounts.MarkVerified(ctx, account.ID); err != nil {
		return domain.Account{}, fmt.Errorf("mark verified: %w", err)
	}

	account.IsVerified = true
	account.VerificationToken = nil

	if s.events != nil {
		event := domain.EmailVerifiedEvent{
			AccountID:  account.ID,
			Email:      account.Email,
			VerifiedAt: time.Now().UTC(),
		}
		if err := s.events.PublishEmailVerified(ctx, event); err != nil {
			s.logger.Warn("publish email verified event failed",
				zap.String("account_id", account.ID), zap.Error(err))
		}
	}

	return *account, nil
}
