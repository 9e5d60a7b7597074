package handlers

import (
	"github.com/jooshwells/nanta-mobile/internal/core/domain"
)

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusMessageResponse carries a success flag next to the message, matching
// the shape mobile clients already parse.
type StatusMessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FieldError is a single validation failure for one named field.
type FieldError struct {
	Msg string `json:"msg"`
}

// ValidationErrorResponse is the 400 payload for input validation failures:
// one entry per offending field, first failing rule wins.
type ValidationErrorResponse struct {
	Errors map[string]FieldError `json:"errors"`
}

// AccountSummary is the public view of an account. The password hash and the
// stored verification token never appear here.
type AccountSummary struct {
	ID         string  `json:"id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      string  `json:"email"`
	IsVerified bool    `json:"is_verified"`
	ProfilePic *string `json:"profile_pic"`
}

func newAccountSummary(account domain.Account) AccountSummary {
	return AccountSummary{
		ID:         account.ID,
		FirstName:  account.FirstName,
		LastName:   account.LastName,
		Email:      account.Email,
		IsVerified: account.IsVerified,
		ProfilePic: account.ProfilePic,
	}
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned for a successful login. The token rides both in
// the session cookie and in the body so mobile clients can store it directly.
type LoginResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    AccountSummary `json:"user"`
}

// UserDataResponse wraps the account payload returned by the user endpoint.
type UserDataResponse struct {
	Success bool     `json:"success"`
	Data    UserData `json:"data"`
	Message string   `json:"message"`
}

// UserData is the inner envelope of UserDataResponse.
type UserData struct {
	User AccountSummary `json:"user"`
}

// AuthorizationStatusResponse reports the outcome of the session probe.
type AuthorizationStatusResponse struct {
	AuthorizationStatus string `json:"authorization_status"`
}

// VerificationStatusResponse reports the outcome of an email confirmation.
type VerificationStatusResponse struct {
	VerificationStatus string `json:"verification_status"`
}

// NoteRequest is the create/update payload for a note.
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NoteView is the public view of a note.
type NoteView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// NotesListResponse is the payload for the note listing endpoint.
type NotesListResponse struct {
	Notes   []NoteView `json:"notes"`
	Message string     `json:"message"`
}

// ProfileUpdateRequest defines the partial profile update payload. Absent
// fields stay untouched; profile_pic may be set to the empty string to clear
// it.
type ProfileUpdateRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Email      *string `json:"email"`
	Password   *string `json:"password"`
	ProfilePic *string `json:"profile_pic"`
}

// ProfileUpdateResponse returns the refreshed account after a profile update.
type ProfileUpdateResponse struct {
	Message string         `json:"message"`
	User    AccountSummary `json:"user"`
}
