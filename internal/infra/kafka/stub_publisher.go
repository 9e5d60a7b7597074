package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jooshwells/nanta-mobile/internal/core/domain"
	"github.com/jooshwells/nanta-mobile/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, accountID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("account_id", accountID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishAccountRegistered logs account.registered events.
func (p *StubPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	payload := map[string]any{
		"account_id":    event.AccountID,
		"email":         event.Email,
		"first_name":    event.FirstName,
		"last_name":     event.LastName,
		"registered_at": event.RegisteredAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("account.registered", event.AccountID, event.RegisteredAt, payload)
	return nil
}

// PublishEmailVerified logs account.email_verified events.
func (p *StubPublisher) PublishEmailVerified(_ context.Context, event domain.EmailVerifiedEvent) error {
	payload := map[string]any{
		"account_id":  event.AccountID,
		"email":       event.Email,
		"verified_at": event.VerifiedAt,
		"metadata":    event.Metadata,
	}
	p.logEvent("account.email_verified", event.AccountID, event.VerifiedAt, payload)
	return nil
}

// PublishAccountUpdated logs account.updated events.
func (p *StubPublisher) PublishAccountUpdated(_ context.Context, event domain.AccountUpdatedEvent) error {
	payload := map[string]any{
		"account_id":       event.AccountID,
		"updated_fields":   event.UpdatedFields,
		"password_changed": event.PasswordChanged,
		"updated_at":       event.UpdatedAt,
		"metadata":         event.Metadata,
	}
	p.logEvent("account.updated", event.AccountID, event.UpdatedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
