package port

import (
	"context"

	"github.com/jooshwells/nanta-mobile/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error
	PublishEmailVerified(ctx context.Context, event domain.EmailVerifiedEvent) error
	PublishAccountUpdated(ctx context.Context, event domain.AccountUpdatedEvent) error
}
