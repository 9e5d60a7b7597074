package port

import (
	"context"

	"github.com/jooshwells/nanta-mobile/internal/core/domain"
)

// AccountRepository is the adapter the identity core uses against the user
// directory. Implementations must return repository.ErrNotFound for missing
// rows and repository.ErrDuplicate when the unique email constraint trips.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Update(ctx context.Context, id string, update domain.AccountUpdate) (*domain.Account, error)
	// SetVerificationToken overwrites the stored verification token,
	// invalidating any previously issued one.
	SetVerificationToken(ctx context.Context, id string, token string) error
	// MarkVerified sets is_verified and clears the stored verification token
	// in a single write.
	MarkVerified(ctx context.Context, id string) error
}
