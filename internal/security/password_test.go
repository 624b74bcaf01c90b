package security

import (
	"errors"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("longenough1")

	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "longenough1" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if err := CheckPassword(hash, "longenough1"); err != nil {
		t.Fatalf("expected matching password to verify, got %v", err)
	}

	if err := CheckPassword(hash, "wrong-password"); err == nil {
		t.Fatalf("expected mismatch to fail verification")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	h1, err := HashPassword("longenough1")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	h2, err := HashPassword("longenough1")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("two hashes of the same password must differ (salt)")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	err := CheckPassword("not-a-bcrypt-hash", "whatever")

	if !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}
