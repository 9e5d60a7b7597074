package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jooshwells/nanta-mobile/internal/core/domain"
	"github.com/jooshwells/nanta-mobile/internal/infra/security"
)

func TestResendOverwritesStoredToken(t *testing.T) {
	account := seedAccount(t, "password123")
	account.IsVerified = false
	repo := &mockAccountRepository{}
	svc := NewVerificationService(repo, newTestCodec(t), nil)

	token, err := svc.Resend(context.Background(), account)
	if err != nil {
		t.Fatalf("Resend returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a fresh token")
	}
	if repo.setTokenCalls != 1 {
		t.Fatalf("expected one overwrite, got %d", repo.setTokenCalls)
	}
	if repo.setTokenID != account.ID {
		t.Fatalf("token stored on wrong account: %s", repo.setTokenID)
	}
	if repo.setTokenValue != token {
		t.Fatal("stored copy must match the returned token")
	}
}

func TestResendStoreFailure(t *testing.T) {
	account := seedAccount(t, "password123")
	repo := &mockAccountRepository{setTokenErr: errors.New("connection reset")}
	svc := NewVerificationService(repo, newTestCodec(t), nil)

	if _, err := svc.Resend(context.Background(), account); err == nil {
		t.Fatal("expected error when the overwrite fails")
	}
}

func TestConfirmHappyPath(t *testing.T) {
	account := seedAccount(t, "password123")
	account.IsVerified = false
	codec := newTestCodec(t)
	token, err := codec.Mint(security.TokenTypeEmailVerification, account.ID, account.Email, time.Hour)
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}
	account.VerificationToken = &token

	repo := &mockAccountRepository{
		accounts: map[string]domain.Account{account.ID: account},
	}
	events := &mockEventPublisher{}
	svc := NewVerificationService(repo, codec, events)

	verified, err := svc.Confirm(context.Background(), token)
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	if !verified.IsVerified {
		t.Fatal("account must come back verified")
	}
	if verified.VerificationToken != nil {
		t.Fatal("consumed token must be cleared")
	}
	if repo.markVerifiedCalls != 1 {
		t.Fatalf("expected one MarkVerified call, got %d", repo.markVerifiedCalls)
	}
	if repo.markVerifiedID != account.ID {
		t.Fatalf("wrong account marked verified: %s", repo.markVerifiedID)
	}
	if len(events.verified) != 1 {
		t.Fatalf("expected one verified event, got %d", len(events.verified))
	}
}

func TestConfirmRejectsMismatchedStoredCopy(t *testing.T) {
	account := seedAccount(t, "password123")
	account.IsVerified = false
	codec := newTestCodec(t)

	stale, err := codec.Mint(security.TokenTypeEmailVerification, account.ID, account.Email, time.Hour)
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}
	// A resend overwrote the stored copy after the stale token was issued.
	time.Sleep(time.Second)
	fresh, err := codec.Mint(security.TokenTypeEmailVerification, account.ID, account.Email, time.Hour)
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}
	if stale == fresh {
		t.Fatal("fixture requires two distinct tokens")
	}
	account.VerificationToken = &fresh

	repo := &mockAccountRepository{
		accounts: map[string]domain.Account{account.ID: account},
	}
	svc := NewVerificationService(repo, codec, nil)

	_, err = svc.Confirm(context.Background(), stale)
	if !errors.Is(err, ErrInvalidVerificationToken) {
		t.Fatalf("expected ErrInvalidVerificationToken, got %v", err)
	}
	if repo.markVerifiedCalls != 0 {
		t.Fatal("mismatched token must not flip verification")
	}
}

func TestConfirmRejectsConsumedToken(t *testing.T) {
	account := seedAccount(t, "password123")
	account.IsVerified = true
	account.VerificationToken = nil // cleared when the token was consumed
	codec := newTestCodec(t)

	token, err := codec.Mint(security.TokenTypeEmailVerification, account.ID, account.Email, time.Hour)
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}

	repo := &mockAccountRepository{
		accounts: map[string]domain.Account{account.ID: account},
	}
	svc := NewVerificationService(repo, codec, nil)

	_, err = svc.Confirm(context.Background(), token)
	if !errors.Is(err, ErrInvalidVerificationToken) {
		t.Fatalf("expected ErrInvalidVerificationToken, got %v", err)
	}
}

func TestConfirmRejectsSessionToken(t *testing.T) {
	account := seedAccount(t, "password123")
	codec := newTestCodec(t)

	session, err := codec.Mint(security.TokenTypeSession, account.ID, account.Email, time.Hour)
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}
	account.VerificationToken = &session

	repo := &mockAccountRepository{
		accounts: map[string]domain.Account{account.ID: account},
	}
	svc := NewVerificationService(repo, codec, nil)

	_, err = svc.Confirm(context.Background(), session)
	if !errors.Is(err, ErrInvalidVerificationToken) {
		t.Fatalf("expected ErrInvalidVerificationToken, got %v", err)
	}
}

func TestConfirmRejectsUnknownAccountAndGarbage(t *testing.T) {
	codec := newTestCodec(t)
	orphan, err := codec.Mint(security.TokenTypeEmailVerification, "gone-account", "gone@x.com", time.Hour)
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}

	repo := &mockAccountRepository{}
	svc := NewVerificationService(repo, codec, nil)

	for _, token := range []string{"", "not.a.token", orphan} {
		if _, err := svc.Confirm(context.Background(), token); !errors.Is(err, ErrInvalidVerificationToken) {
			t.Fatalf("token %q: expected ErrInvalidVerificationToken, got %v", token, err)
		}
	}
}
