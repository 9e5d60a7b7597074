package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jooshwells/nanta-mobile/internal/infra/logger"
)

// NotificationDispatcher fans the verification token out to the account's
// mailbox. Dispatch is always fire-and-forget from the handler's point of
// view: delivery failures are logged, never surfaced to the client.
type NotificationDispatcher interface {
	SendVerificationEmail(ctx context.Context, payload VerificationNotification) error
}

// VerificationNotification captures the data needed to deliver a
// verification link.
type VerificationNotification struct {
	FirstName string
	LastName  string
	Email     string
	Token     string
	ExpiresAt time.Time
}

type noopDispatcher struct{}

func (noopDispatcher) SendVerificationEmail(context.Context, VerificationNotification) error {
	return nil
}

// LoggingNotificationDispatcher records dispatch events without delivering
// them. Used when SMTP is not configured, and in development.
type LoggingNotificationDispatcher struct {
	logger *zap.Logger
}

// NewLoggingNotificationDispatcher constructs a dispatcher backed by
// structured logging.
func NewLoggingNotificationDispatcher(log *zap.Logger) NotificationDispatcher {
	if log == nil {
		return noopDispatcher{}
	}
	return &LoggingNotificationDispatcher{logger: log}
}

func (d *LoggingNotificationDispatcher) SendVerificationEmail(_ context.Context, payload VerificationNotification) error {
	if d == nil || d.logger == nil {
		return nil
	}

	d.logger.Info("dispatch verification email",
		zap.String("email", logger.MaskEmail(payload.Email)),
		zap.Time("expires_at", payload.ExpiresAt),
	)
	return nil
}

// VerificationMailer is the slice of the mail sender the dispatcher needs.
type VerificationMailer interface {
	SendVerification(ctx context.Context, to, firstName, lastName, token string) error
}

// MailNotificationDispatcher delivers verification tokens over SMTP.
type MailNotificationDispatcher struct {
	mailer VerificationMailer
	logger *zap.Logger
}

// NewMailNotificationDispatcher constructs an SMTP-backed dispatcher.
func NewMailNotificationDispatcher(mailer VerificationMailer, log *zap.Logger) NotificationDispatcher {
	if mailer == nil {
		return NewLoggingNotificationDispatcher(log)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MailNotificationDispatcher{mailer: mailer, logger: log}
}

func (d *MailNotificationDispatcher) SendVerificationEmail(ctx context.Context, payload VerificationNotification) error {
	if err := d.mailer.SendVerification(ctx, payload.Email, payload.FirstName, payload.LastName, payload.Token); err != nil {
		d.logger.Warn("verification email delivery failed",
			zap.String("email", logger.MaskEmail(payload.Email)),
			zap.Error(err),
		)
		return err
	}

	d.logger.Info("verification email dispatched",
		zap.String("email", logger.MaskEmail(payload.Email)),
	)
	return nil
}

// dispatchAsync runs the dispatcher off the request goroutine with a bounded
// deadline so a slow SMTP server cannot hold a handler open.
func dispatchAsync(dispatcher NotificationDispatcher, payload VerificationNotification) {
	if dispatcher == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = dispatcher.SendVerificationEmail(ctx, payload)
	}()
}
