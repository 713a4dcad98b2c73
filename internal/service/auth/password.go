package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"SchoolAPI/internal/app_errors"
)

// HashPassword returns the bcrypt hash of the password. The salt and cost
// factor are embedded in the hash itself.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// VerifyPassword reports whether the password matches the stored hash.
// A hash bcrypt cannot parse yields ErrMalformedHash instead of a mismatch,
// the plaintext is never returned or logged.
func VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", app_errors.ErrMalformedHash, err)
	}
}
