package domain

import "time"

// AccountRegisteredEvent represents the payload for nanta.account.registered messages.
type AccountRegisteredEvent struct {
	EventID      string
	AccountID    string
	Email        string
	FirstName    string
	LastName     string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// EmailVerifiedEvent represents the payload for nanta.account.email_verified messages.
type EmailVerifiedEvent struct {
	EventID    string
	AccountID  string
	Email      string
	VerifiedAt time.Time
	Metadata   map[string]any
}

// AccountUpdatedEvent represents the payload for nanta.account.updated messages.
type AccountUpdatedEvent struct {
	EventID         string
	AccountID       string
	UpdatedFields   []string
	PasswordChanged bool
	UpdatedAt       time.Time
	Metadata        map[string]any
}
