package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jooshwells/nanta-mobile/internal/core/domain"
	"github.com/jooshwells/nanta-mobile/internal/infra/security"
	"github.com/jooshwells/nanta-mobile/internal/repository"
)

type mockAccountRepository struct {
	createErr   error
	createCalls int
	created     domain.Account

	accounts map[string]domain.Account // keyed by id
	byEmail  map[string]domain.Account
	getErr   error

	updateResult *domain.Account
	updateErr    error
	updateCalls  int
	lastUpdateID string
	lastUpdate   domain.AccountUpdate

	setTokenErr   error
	setTokenCalls int
	setTokenID    string
	setTokenValue string

	markVerifiedErr   error
	markVerifiedCalls int
	markVerifiedID    string
}

func (m *mockAccountRepository) Create(_ context.Context, account domain.Account) error {
	m.createCalls++
	m.created = account
	return m.createErr
}

func (m *mockAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if account, ok := m.accounts[id]; ok {
		copy := account
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockAccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if account, ok := m.byEmail[email]; ok {
		copy := account
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockAccountRepository) Update(_ context.Context, id string, update domain.AccountUpdate) (*domain.Account, error) {
	m.updateCalls++
	m.lastUpdateID = id
	m.lastUpdate = update
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	if m.updateResult != nil {
		copy := *m.updateResult
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockAccountRepository) SetVerificationToken(_ context.Context, id string, token string) error {
	m.setTokenCalls++
	m.setTokenID = id
	m.setTokenValue = token
	return m.setTokenErr
}

func (m *mockAccountRepository) MarkVerified(_ context.Context, id string) error {
	m.markVerifiedCalls++
	m.markVerifiedID = id
	return m.markVerifiedErr
}

type mockEventPublisher struct {
	registered []domain.AccountRegisteredEvent
	verified   []domain.EmailVerifiedEvent
	updated    []domain.AccountUpdatedEvent
	err        error
}

func (m *mockEventPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	m.registered = append(m.registered, event)
	return m.err
}

func (m *mockEventPublisher) PublishEmailVerified(_ context.Context, event domain.EmailVerifiedEvent) error {
	m.verified = append(m.verified, event)
	return m.err
}

func (m *mockEventPublisher) PublishAccountUpdated(_ context.Context, event domain.AccountUpdatedEvent) error {
	m.updated = append(m.updated, event)
	return m.err
}

func newTestCodec(t *testing.T) *security.TokenCodec {
	t.Helper()

	codec, err := security.NewTokenCodec("unit-test-secret", "nanta-test")
	if err != nil {
		t.Fatalf("NewTokenCodec returned error: %v", err)
	}
	return codec
}

func TestRegisterCreatesUnverifiedAccountWithToken(t *testing.T) {
	repo := &mockAccountRepository{}
	events := &mockEventPublisher{}
	svc := NewRegistrationService(repo, newTestCodec(t), events)

	account, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "John@X.com",
		Password:  "password123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if repo.createCalls != 1 {
		t.Fatalf("expected exactly one create call, got %d", repo.createCalls)
	}
	if account.IsVerified {
		t.Fatal("new account must not be verified")
	}
	if account.Email != "john@x.com" {
		t.Fatalf("email not normalized: %s", account.Email)
	}
	if account.VerificationToken == nil || *account.VerificationToken == "" {
		t.Fatal("new account must carry a verification token")
	}
	if repo.created.VerificationToken == nil || *repo.created.VerificationToken != *account.VerificationToken {
		t.Fatal("persisted account must carry the same verification token")
	}
	if account.PasswordHash == "password123" || account.PasswordHash == "" {
		t.Fatal("password must be stored as a hash")
	}

	ok, err := security.VerifyPassword("password123", account.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}

	if len(events.registered) != 1 {
		t.Fatalf("expected one registered event, got %d", len(events.registered))
	}
}

func TestRegisterMintsVerificationTypedToken(t *testing.T) {
	repo := &mockAccountRepository{}
	codec := newTestCodec(t)
	svc := NewRegistrationService(repo, codec, nil)

	account, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@x.com",
		Password:  "password123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	claims, err := codec.Verify(*account.VerificationToken)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Type != security.TokenTypeEmailVerification {
		t.Fatalf("unexpected token type: %s", claims.Type)
	}
	if claims.AccountID != account.ID {
		t.Fatalf("token bound to wrong account: %s", claims.AccountID)
	}
	if claims.Email != account.Email {
		t.Fatalf("token bound to wrong email: %s", claims.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &mockAccountRepository{createErr: repository.ErrDuplicate}
	svc := NewRegistrationService(repo, newTestCodec(t), nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@x.com",
		Password:  "password123",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if repo.createCalls != 1 {
		t.Fatalf("expected a single create attempt, got %d", repo.createCalls)
	}
}

func TestRegisterPersistFailureCommitsNothing(t *testing.T) {
	repo := &mockAccountRepository{createErr: errors.New("connection reset")}
	events := &mockEventPublisher{}
	svc := NewRegistrationService(repo, newTestCodec(t), events)

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@x.com",
		Password:  "password123",
	})
	if err == nil {
		t.Fatal("expected error when persistence fails")
	}

	if len(events.registered) != 0 {
		t.Fatal("no event must be published when the create fails")
	}
}

func TestRegisterVerificationTTL(t *testing.T) {
	repo := &mockAccountRepository{}
	codec := newTestCodec(t)
	svc := NewRegistrationService(repo, codec, nil).WithVerificationTTL(12 * time.Hour)

	account, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@x.com",
		Password:  "password123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	claims, err := codec.Verify(*account.VerificationToken)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < 11*time.Hour || remaining > 13*time.Hour {
		t.Fatalf("unexpected verification token lifetime: %s", remaining)
	}
}
