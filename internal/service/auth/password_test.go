package auth

import (
	"errors"
	"strings"
	"testing"

	"SchoolAPI/internal/app_errors"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "pw123" || hash == "" {
		t.Fatalf("hash must not equal plaintext, got %q", hash)
	}

	ok, err := VerifyPassword("pw123", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("correct password did not verify")
	}

	ok, err = VerifyPassword("wrong", hash)
	if err != nil {
		t.Fatalf("VerifyPassword wrong password: %v", err)
	}
	if ok {
		t.Error("wrong password verified")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical, salt missing")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	for _, hash := range []string{"", "not-a-bcrypt-hash", strings.Repeat("x", 60)} {
		_, err := VerifyPassword("pw123", hash)
		if !errors.Is(err, app_errors.ErrMalformedHash) {
			t.Errorf("hash %q: expected ErrMalformedHash, got %v", hash, err)
		}
	}
}
