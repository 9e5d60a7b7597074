package domain

import "time"

// Account mirrors the persisted representation in the accounts table.
type Account struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	IsVerified   bool
	// VerificationToken holds the last issued email-verification token.
	// Nil exactly when no verification is pending or verification already
	// succeeded; the stored copy is the source of truth when confirming.
	VerificationToken *string
	ProfilePic        *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Sanitized returns a copy safe to hand to transport layers.
func (a Account) Sanitized() Account {
	out := a
	out.PasswordHash = ""
	out.VerificationToken = nil
	return out
}

// AccountUpdate carries the optional fields of a profile update. Nil fields
// are left untouched.
type AccountUpdate struct {
	FirstName    *string
	LastName     *string
	Email        *string
	PasswordHash *string
	ProfilePic   *string
}

// Empty reports whether the update would change nothing.
func (u AccountUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil &&
		u.PasswordHash == nil && u.ProfilePic == nil
}
