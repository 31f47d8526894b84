package auth

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor used across the codebase; hashing runs
// in the request goroutine, so keep issuance and verification symmetric.
const bcryptCost = 12

// ErrNoEmptyString rejects empty passwords before they reach bcrypt
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation)

// ErrMismatchedHashAndPassword is the normalized wrong-password error
var ErrMismatchedHashAndPassword = goerrors.New("password does not match", goerrors.CategoryAuth)

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// TemporaryPassword generates the random credential mailed out when an
// account is approved. 12 chars keeps it comfortably above the minimum
// password length while still typable from an email.
func TemporaryPassword() string {
	pwd := uuid.NewString()
	return pwd[:8] + pwd[24:28]
}
