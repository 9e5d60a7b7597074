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

const minPasswordLength = 8

var (
	// ErrAccountNotFound indicates the account no longer exists.
	ErrAccountNotFound = errors.New("account not found")
	// ErrPasswordTooShort indicates a password below the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

// AccountService handles profile reads and partial updates.
type AccountService struct {
	accounts port.AccountRepository
	events   port.EventPublisher
	logger   *zap.Logger
}

// NewAccountService constructs an account service.
func NewAccountService(accounts port.AccountRepository, events port.EventPublisher) *AccountService {
	return &AccountService{
		accounts: accounts,
		events:   events,
		logger:   zap.NewNop(),
	}
}

// WithLogger attaches a structured logger.
func (s *AccountService) WithLogger(logger *zap.Logger) *AccountService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// ProfileUpdateInput carries the optional profile fields. Nil means leave
// the field alone; for ProfilePic an empty string clears it.
type ProfileUpdateInput struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Password   *string
	ProfilePic *string
}

// UpdateProfile applies a partial update to the principal's account. A new
// password is re-hashed; a new email is re-normalized and subject to the
// same uniqueness constraint as registration.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, input ProfileUpdateInput) (domain.Account, error) {
	update := domain.AccountUpdate{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		ProfilePic: input.ProfilePic,
	}

	var fields []string
	if input.FirstName != nil {
		fields = append(fields, "first_name")
	}
	if input.LastName != nil {
		fields = append(fields, "last_name")
	}
	if input.ProfilePic != nil {
		fields = append(fields, "profile_pic")
	}

	if input.Email != nil {
		email := NormalizeEmail(*input.Email)
		if email == "" {
			return domain.Account{}, fmt.Errorf("email must not be empty")
		}
		update.Email = &email
		fields = append(fields, "email")
	}

	passwordChanged := false
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return domain.Account{}, ErrPasswordTooShort
		}
		hash, err := security.HashPassword(*input.Password)
		if err != nil {
			return domain.Account{}, fmt.Errorf("hash password: %w", err)
		}
		update.PasswordHash = &hash
		passwordChanged = true
	}

	account, err := s.accounts.Update(ctx, accountID, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return domain.Account{}, ErrAccountNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return domain.Account{}, ErrEmailTaken
		}
		return domain.Account{}, fmt.Errorf("update account: %w", err)
	}

	if s.events != nil {
		event := domain.AccountUpdatedEvent{
			AccountID:       account.ID,
			UpdatedFields:   fields,
			PasswordChanged: passwordChanged,
			UpdatedAt:       time.Now().UTC(),
		}
		if err := s.events.PublishAccountUpdated(ctx, event); err != nil {
			s.logger.Warn("publish account updated event failed",
				zap.String("account_id", account.ID), zap.Error(err))
		}
	}

	return account.Sanitized(), nil
}
