package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jooshwells/nanta-mobile/internal/core/domain"
	"github.com/jooshwells/nanta-mobile/internal/core/port"
	"github.com/jooshwells/nanta-mobile/internal/infra/security"
	"github.com/jooshwells/nanta-mobile/internal/repository"
)

const defaultVerificationTTL = 12 * time.Hour

// ErrEmailTaken indicates the email already belongs to an account.
var ErrEmailTaken = errors.New("email is already registered")

// RegistrationService handles new account onboarding. Input constraints
// (field presence, email syntax, password length, confirmation match) are
// enforced at the HTTP boundary; the service assumes they hold.
type RegistrationService struct {
	accounts        port.AccountRepository
	codec           *security.TokenCodec
	events          port.EventPublisher
	verificationTTL time.Duration
	logger          *zap.Logger
}

// NewRegistrationService constructs a registration service.
func NewRegistrationService(accounts port.AccountRepository, codec *security.TokenCodec, events port.EventPublisher) *RegistrationService {
	return &RegistrationService{
		accounts:        accounts,
		codec:           codec,
		events:          events,
		verificationTTL: defaultVerificationTTL,
		logger:          zap.NewNop(),
	}
}

// WithVerificationTTL overrides the email-verification token lifetime.
func (s *RegistrationService) WithVerificationTTL(ttl time.Duration) *RegistrationService {
	if ttl > 0 {
		s.verificationTTL = ttl
	}
	return s
}

// WithLogger attaches a structured logger.
func (s *RegistrationService) WithLogger(logger *zap.Logger) *RegistrationService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// RegisterInput carries the validated registration fields.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register hashes the password, mints an email-verification token bound to
// the new account, and persists everything as a single atomic create. The
// returned account still carries the verification token so the caller can
// dispatch delivery; nothing is committed if the insert fails.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (domain.Account, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return domain.Account{}, fmt.Errorf("email is required")
	}
	if input.Password == "" {
		return domain.Account{}, fmt.Errorf("password is required")
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return domain.Account{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	id := uuid.NewString()

	verificationToken, err := s.codec.Mint(security.TokenTypeEmailVerification, id, email, s.verificationTTL)
	if err != nil {
		return domain.Account{}, fmt.Errorf("mint verification token: %w", err)
	}

	account := domain.Account{
		ID:                id,
		FirstName:         strings.TrimSpace(input.FirstName),
		LastName:          strings.TrimSpace(input.LastName),
		Email:             email,
		PasswordHash:      passwordHash,
		IsVerified:        false,
		VerificationToken: &verificationToken,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Account{}, ErrEmailTaken
		}
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	if s.events != nil {
		event := domain.AccountRegisteredEvent{
			AccountID:    account.ID,
			Email:        account.Email,
			FirstName:    account.FirstName,
			LastName:     account.LastName,
			RegisteredAt: now,
		}
		if err := s.events.PublishAccountRegistered(ctx, event); err != nil {
			s.logger.Warn("publish account registered event failed",
				zap.String("account_id", account.ID), zap.Error(err))
		}
	}

	return account, nil
}

// NormalizeEmail lower-cases and trims an email so lookups and the unique
// constraint see one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
