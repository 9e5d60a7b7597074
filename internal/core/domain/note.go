package domain

import "time"

// DefaultNoteTitle is applied when a note is created without a title.
const DefaultNoteTitle = "Blank Note"

// Note is a single note owned by an account.
type Note struct {
	ID        string
	Title     string
	Content   string
	AccountID string
	CreatedAt time.Time
	UpdatedAt time.Time
}
