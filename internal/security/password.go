package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidHash means the stored value is not a bcrypt hash at all.
// Callers treat it the same as a failed verification.
var ErrInvalidHash = errors.New("invalid password hash format")

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plaintext password.
func CheckPassword(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))

	if err == nil {
		return nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return err
	}

	// Anything else (truncated hash, unknown version byte, bad cost)
	// means the stored value is corrupt, not that the password is wrong.
	return ErrInvalidHash
}
