package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jooshwells/nanta-mobile/internal/core/domain"
	"github.com/jooshwells/nanta-mobile/internal/repository"
)

type mockNoteRepository struct {
	createErr   error
	createCalls int
	created     domain.Note

	listResult []domain.Note
	listErr    error

	updateResult *domain.Note
	updateErr    error

	deleteErr   error
	deleteCalls int
	deletedID   string
	deletedBy   string
}

func (m *mockNoteRepository) Create(_ context.Context, note domain.Note) error {
	m.createCalls++
	m.created = note
	return m.createErr
}

func (m *mockNoteRepository) ListByAccount(_ context.Context, _ string) ([]domain.Note, error) {
	return m.listResult, m.listErr
}

func (m *mockNoteRepository) Update(_ context.Context, _, _, _, _ string) (*domain.Note, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	if m.updateResult != nil {
		copy := *m.updateResult
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockNoteRepository) Delete(_ context.Context, id, accountID string) error {
	m.deleteCalls++
	m.deletedID = id
	m.deletedBy = accountID
	return m.deleteErr
}

func TestCreateNoteDefaultsTitle(t *testing.T) {
	repo := &mockNoteRepository{}
	svc := NewNoteService(repo)

	note, err := svc.Create(context.Background(), "acct-1", "   ", "remember the milk")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if note.Title != domain.DefaultNoteTitle {
		t.Fatalf("expected default title, got %q", note.Title)
	}
	if note.ID == "" {
		t.Fatal("note must get an id")
	}
	if note.AccountID != "acct-1" {
		t.Fatalf("note bound to wrong account: %s", note.AccountID)
	}
	if repo.created.Title != domain.DefaultNoteTitle {
		t.Fatal("persisted note must carry the default title")
	}
}

func TestCreateNoteKeepsProvidedTitle(t *testing.T) {
	repo := &mockNoteRepository{}
	svc := NewNoteService(repo)

	note, err := svc.Create(context.Background(), "acct-1", "Groceries", "milk, eggs")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if note.Title != "Groceries" {
		t.Fatalf("unexpected title: %q", note.Title)
	}
}

func TestCreateNoteRequiresContent(t *testing.T) {
	repo := &mockNoteRepository{}
	svc := NewNoteService(repo)

	if _, err := svc.Create(context.Background(), "acct-1", "Groceries", ""); err == nil {
		t.Fatal("expected error for empty content")
	}
	if repo.createCalls != 0 {
		t.Fatal("invalid input must not reach the repository")
	}
}

func TestListNotes(t *testing.T) {
	now := time.Now().UTC()
	repo := &mockNoteRepository{listResult: []domain.Note{
		{ID: "n2", Title: "newer", UpdatedAt: now},
		{ID: "n1", Title: "older", UpdatedAt: now.Add(-time.Hour)},
	}}
	svc := NewNoteService(repo)

	notes, err := svc.List(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(notes) != 2 || notes[0].ID != "n2" {
		t.Fatalf("unexpected listing: %+v", notes)
	}
}

func TestUpdateNoteNotOwned(t *testing.T) {
	repo := &mockNoteRepository{updateErr: repository.ErrNotFound}
	svc := NewNoteService(repo)

	_, err := svc.Update(context.Background(), "acct-1", "n1", "title", "content")
	if !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestDeleteNote(t *testing.T) {
	repo := &mockNoteRepository{}
	svc := NewNoteService(repo)

	if err := svc.Delete(context.Background(), "acct-1", "n1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if repo.deleteCalls != 1 || repo.deletedID != "n1" || repo.deletedBy != "acct-1" {
		t.Fatalf("unexpected delete call: id=%s by=%s", repo.deletedID, repo.deletedBy)
	}
}

func TestDeleteNoteNotOwned(t *testing.T) {
	repo := &mockNoteRepository{deleteErr: repository.ErrNotFound}
	svc := NewNoteService(repo)

	if err := svc.Delete(context.Background(), "acct-1", "n1"); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}
