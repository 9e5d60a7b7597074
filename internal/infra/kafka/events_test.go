package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/jooshwells/nanta-mobile/internal/core/domain"
	"github.com/jooshwells/nanta-mobile/internal/infra/config"
)

type fakeAsyncProducer struct {
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
}

func newFakeAsyncProducer() *fakeAsyncProducer {
	return &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage, 1),
		errors: make(chan *sarama.ProducerError, 1),
	}
}

func (f *fakeAsyncProducer) AsyncClose() {}

func (f *fakeAsyncProducer) Close() error { return nil }

func (f *fakeAsyncProducer) Input() chan<- *sarama.ProducerMessage { return f.input }

func (f *fakeAsyncProducer) Successes() <-chan *sarama.ProducerMessage { return nil }

func (f *fakeAsyncProducer) Errors() <-chan *sarama.ProducerError { return f.errors }

func (f *fakeAsyncProducer) IsTransactional() bool { return false }

func (f *fakeAsyncProducer) BeginTxn() error { return nil }

func (f *fakeAsyncProducer) CommitTxn() error { return nil }

func (f *fakeAsyncProducer) AbortTxn() error { return nil }

func (f *fakeAsyncProducer) AddOffsetsToTxn(offsets map[string][]*sarama.PartitionOffsetMetadata, groupID string) error {
	return nil
}

func (f *fakeAsyncProducer) AddMessageToTxn(msg *sarama.ConsumerMessage, groupID string, metadata *string) error {
	return nil
}

func (f *fakeAsyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag {
	return sarama.ProducerTxnStatusFlag(0)
}

func newTestPublisher(t *testing.T, asyncProducer sarama.AsyncProducer) *EventPublisher {
	t.Helper()

	producer := &Producer{
		producer: asyncProducer,
		logger:   zaptest.NewLogger(t),
		cfg: config.KafkaSettings{
			TopicPrefix: "nanta",
		},
		errChan: make(chan error, 1),
		done:    make(chan struct{}),
	}

	return NewEventPublisher(producer, config.AppSettings{
		Name: "nanta-api",
		Env:  "test",
	}, zaptest.NewLogger(t))
}

func TestPublishAccountRegistered(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	registeredAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	event := domain.AccountRegisteredEvent{
		EventID:      "event-123",
		AccountID:    "acct-456",
		Email:        "john@x.com",
		FirstName:    "John",
		LastName:     "Doe",
		RegisteredAt: registeredAt,
		Metadata:     map[string]any{"source": "unit-test"},
	}

	if err := publisher.PublishAccountRegistered(context.Background(), event); err != nil {
		t.Fatalf("PublishAccountRegistered returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "nanta.account.registered" {
			t.Fatalf("unexpected topic: %s", msg.Topic)
		}

		bytes, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("Value.Encode returned error: %v", err)
		}

		var envelope map[string]any
		if err := json.Unmarshal(bytes, &envelope); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}

		if got := envelope["event_type"]; got != "account.registered" {
			t.Fatalf("unexpected event_type: %v", got)
		}

		if got := envelope["account_id"]; got != event.AccountID {
			t.Fatalf("unexpected account_id: %v", got)
		}

		timestamp, ok := envelope["timestamp"].(string)
		if !ok {
			t.Fatalf("timestamp not a string: %T", envelope["timestamp"])
		}
		if timestamp != registeredAt.Format(time.RFC3339Nano) {
			t.Fatalf("unexpected timestamp: %s", timestamp)
		}

		payload, ok := envelope["payload"].(map[string]any)
		if !ok {
			t.Fatalf("payload not a map: %T", envelope["payload"])
		}

		if got := payload["email"]; got != event.Email {
			t.Fatalf("unexpected email: %v", got)
		}
		if got := payload["first_name"]; got != event.FirstName {
			t.Fatalf("unexpected first_name: %v", got)
		}

		envelopeMetadata, ok := envelope["metadata"].(map[string]any)
		if !ok {
			t.Fatalf("envelope metadata not a map: %T", envelope["metadata"])
		}
		if envelopeMetadata["service"] != "nanta-api" {
			t.Fatalf("unexpected metadata service: %v", envelopeMetadata["service"])
		}
		if envelopeMetadata["environment"] != "test" {
			t.Fatalf("unexpected metadata environment: %v", envelopeMetadata["environment"])
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message on async producer input channel")
	}
}

func TestPublishEmailVerified(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	verifiedAt := time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC)
	event := domain.EmailVerifiedEvent{
		EventID:    "event-789",
		AccountID:  "acct-456",
		Email:      "john@x.com",
		VerifiedAt: verifiedAt,
	}

	if err := publisher.PublishEmailVerified(context.Background(), event); err != nil {
		t.Fatalf("PublishEmailVerified returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "nanta.account.email_verified" {
			t.Fatalf("unexpected topic: %s", msg.Topic)
		}

		bytes, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("Value.Encode returned error: %v", err)
		}

		var envelope map[string]any
		if err := json.Unmarshal(bytes, &envelope); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}

		payload, ok := envelope["payload"].(map[string]any)
		if !ok {
			t.Fatalf("payload not a map: %T", envelope["payload"])
		}

		verifiedAtValue, ok := payload["verified_at"].(string)
		if !ok {
			t.Fatalf("verified_at not a string: %T", payload["verified_at"])
		}
		if verifiedAtValue != verifiedAt.Format(time.RFC3339Nano) {
			t.Fatalf("unexpected verified_at: %s", verifiedAtValue)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message on async producer input channel")
	}
}

func TestPublishAccountUpdated(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	updatedAt := time.Date(2026, 8, 3, 15, 45, 0, 0, time.UTC)
	event := domain.AccountUpdatedEvent{
		AccountID:       "acct-456",
		UpdatedFields:   []string{"first_name", "email"},
		PasswordChanged: true,
		UpdatedAt:       updatedAt,
	}

	if err := publisher.PublishAccountUpdated(context.Background(), event); err != nil {
		t.Fatalf("PublishAccountUpdated returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "nanta.account.updated" {
			t.Fatalf("unexpected topic: %s", msg.Topic)
		}

		bytes, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("Value.Encode returned error: %v", err)
		}

		var envelope map[string]any
		if err := json.Unmarshal(bytes, &envelope); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}

		// A missing event id is generated at publish time.
		eventID, ok := envelope["event_id"].(string)
		if !ok || eventID == "" {
			t.Fatalf("expected generated event_id, got %v", envelope["event_id"])
		}

		payload, ok := envelope["payload"].(map[string]any)
		if !ok {
			t.Fatalf("payload not a map: %T", envelope["payload"])
		}

		if got, _ := payload["password_changed"].(bool); !got {
			t.Fatal("expected password_changed true")
		}

		fields, ok := payload["updated_fields"].([]any)
		if !ok || len(fields) != 2 {
			t.Fatalf("unexpected updated_fields: %v", payload["updated_fields"])
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message on async producer input channel")
	}
}
