package port

import (
	"context"

	"github.com/jooshwells/nanta-mobile/internal/core/domain"
)

// NoteRepository persists notes keyed by owner. Update and Delete are
// owner-scoped: a note that exists but belongs to someone else behaves as if
// it did not exist.
type NoteRepository interface {
	Create(ctx context.Context, note domain.Note) error
	ListByAccount(ctx context.Context, accountID string) ([]domain.Note, error)
	Update(ctx context.Context, id, accountID, title, content string) (*domain.Note, error)
	Delete(ctx context.Context, id, accountID string) error
}
