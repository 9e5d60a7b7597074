package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jooshwells/nanta-mobile/internal/core/domain"
	"github.com/jooshwells/nanta-mobile/internal/core/port"
	"github.com/jooshwells/nanta-mobile/internal/repository"
)

var noteColumns = []string{
	"id",
	"title",
	"content",
	"account_id",
	"created_at",
	"updated_at",
}

// NoteRepository implements port.NoteRepository using PostgreSQL. All
// mutations are owner-scoped: the account id is part of every WHERE clause,
// so a foreign note behaves exactly like a missing one.
type NoteRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewNoteRepository wires a PostgreSQL-backed note repository.
func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new note row.
func (r *NoteRepository) Create(ctx context.Context, note domain.Note) error {
	stmt, args, err := r.builder.Insert("notes").
		Columns(noteColumns...).
		Values(
			note.ID,
			note.Title,
			note.Content,
			note.AccountID,
			note.CreatedAt,
			note.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert note sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert note: %w", err)
	}

	return nil
}

// ListByAccount returns the account's notes, most recently updated first.
func (r *NoteRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Note, error) {
	stmt, args, err := r.builder.
		Select(noteColumns...).
		From("notes").
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("updated_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select notes sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := make([]domain.Note, 0)
	for rows.Next() {
		var note domain.Note
		if err := rows.Scan(
			&note.ID,
			&note.Title,
			&note.Content,
			&note.AccountID,
			&note.CreatedAt,
			&note.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	return notes, nil
}

// Update rewrites title and content of an owned note and returns the result.
func (r *NoteRepository) Update(ctx context.Context, id, accountID, title, content string) (*domain.Note, error) {
	stmt, args, err := r.builder.Update("notes").
		Set("title", title).
		Set("content", content).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "account_id": accountID}).
		Suffix("RETURNING id, title, content, account_id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update note sql: %w", err)
	}

	var note domain.Note
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&note.AccountID,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("update note: %w", err)
	}

	return &note, nil
}

// Delete removes an owned note.
func (r *NoteRepository) Delete(ctx context.Context, id, accountID string) error {
	stmt, args, err := r.builder.Delete("notes").
		Where(squirrel.Eq{"id": id, "account_id": accountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete note sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.NoteRepository = (*NoteRepository)(nil)
