package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/jooshwells/nanta-mobile/internal/core/domain"
	"github.com/jooshwells/nanta-mobile/internal/core/port"
	"github.com/jooshwells/nanta-mobile/internal/repository"
)

// ErrNoteNotFound covers a note that does not exist or is owned by someone
// else; the two cases are indistinguishable on purpose.
var ErrNoteNotFound = errors.New("note not found")

// NoteService handles note CRUD for an authenticated principal.
type NoteService struct {
	notes port.NoteRepository
}

// NewNoteService constructs a note service.
func NewNoteService(notes port.NoteRepository) *NoteService {
	return &NoteService{notes: notes}
}

// Create stores a new note for the principal. An empty title falls back to
// the default.
func (s *NoteService) Create(ctx context.Context, accountID, title, content string) (domain.Note, error) {
	if accountID == "" {
		return domain.Note{}, fmt.Errorf("account id is required")
	}
	if content == "" {
		return domain.Note{}, fmt.Errorf("content is required")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = domain.DefaultNoteTitle
	}

	now := time.Now().UTC()
	note := domain.Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		AccountID: accountID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.notes.Create(ctx, note); err != nil {
		return domain.Note{}, fmt.Errorf("create note: %w", err)
	}

	return note, nil
}

// List returns the principal's notes, most recently updated first.
func (s *NoteService) List(ctx context.Context, accountID string) ([]domain.Note, error) {
	notes, err := s.notes.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Update rewrites an owned note.
func (s *NoteService) Update(ctx context.Context, accountID, noteID, title, content string) (domain.Note, error) {
	note, err := s.notes.Update(ctx, noteID, accountID, title, content)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Note{}, ErrNoteNotFound
		}
		return domain.Note{}, fmt.Errorf("update note: %w", err)
	}
	return *note, nil
}

// Delete removes an owned note.
func (s *NoteService) Delete(ctx context.Context, accountID, noteID string) error {
	if err := s.notes.Delete(ctx, noteID, accountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
