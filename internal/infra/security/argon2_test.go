package security

import (
	"strings"
	"testing"
)

func TestHashPasswordAndVerifySuccess(t *testing.T) {
	password := "correct horse battery staple"

	encoded, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if encoded == "" {
		t.Fatal("HashPassword returned empty string")
	}

	parts := strings.Split(encoded, "$")
	if len(parts) != 5 {
		t.Fatalf("unexpected hash format: %q", encoded)
	}
	if parts[0] != argon2Variant {
		t.Fatalf("unexpected variant: %s", parts[0])
	}
	if parts[1] != argon2Version {
		t.Fatalf("unexpected version: %s", parts[1])
	}

	ok, err := VerifyPassword(password, encoded)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}

	if !ok {
		t.Fatal("VerifyPassword returned false for correct password")
	}
}

func TestVerifyPasswordIncorrectPassword(t *testing.T) {
	password := "correct horse battery staple"
	wrongPassword := "Tr0ub4dor&3"

	encoded, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	ok, err := VerifyPassword(wrongPassword, encoded)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}

	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordInvalidFormat(t *testing.T) {
	if _, err := VerifyPassword("password", "invalid-format"); err == nil {
		t.Fatal("VerifyPassword expected to return error for invalid format")
	}
}

func TestVerifyPasswordEmptyInputs(t *testing.T) {
	ok, err := VerifyPassword("", "")
	if err != nil {
		t.Fatalf("VerifyPassword returned error for empty inputs: %v", err)
	}

	if ok {
		t.Fatal("VerifyPassword should return false for empty inputs")
	}
}

func TestHashPasswordUsesConfiguredParameters(t *testing.T) {
	original := CurrentArgon2Config()
	t.Cleanup(func() {
		if err := ConfigureArgon2(original); err != nil {
			t.Fatalf("restore argon2 config: %v", err)
		}
	})

	custom := Argon2Config{
		Memory:      16 * 1024,
		Iterations:  1,
		Parallelism: 2,
		SaltLength:  8,
		KeyLength:   16,
	}
	if err := ConfigureArgon2(custom); err != nil {
		t.Fatalf("ConfigureArgon2 returned error: %v", err)
	}

	encoded, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if !strings.Contains(encoded, "m=16384,t=1,p=2") {
		t.Fatalf("hash does not embed configured parameters: %q", encoded)
	}

	ok, err := VerifyPassword("password123", encoded)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword returned false for correct password")
	}
}

func TestConfigureArgon2RejectsWeakParameters(t *testing.T) {
	weak := Argon2Config{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  8,
		KeyLength:   16,
	}

	if err := ConfigureArgon2(weak); err == nil {
		t.Fatal("ConfigureArgon2 accepted memory below the minimum")
	}
}
