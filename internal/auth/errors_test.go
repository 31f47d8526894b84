package auth

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	t.Run("ErrInvalidCredentials", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryAuth, ErrInvalidCredentials.Category)
		assert.Equal(t, TextCodeInvalidCredentials, ErrInvalidCredentials.TextCode)
		assert.Equal(t, "Invalid credentials", ErrInvalidCredentials.Message)
	})

	t.Run("ErrMissingToken", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryAuth, ErrMissingToken.Category)
		assert.Equal(t, "Access Denied", ErrMissingToken.Message)
	})

	t.Run("ErrTooManyLoginAttempts", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryRateLimit, ErrTooManyLoginAttempts.Category)
		assert.Equal(t, "TOO_MANY_ATTEMPTS", ErrTooManyLoginAttempts.TextCode)
	})

	t.Run("ErrForbidden", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryAuthz, ErrForbidden.Category)
		assert.Equal(t, goerrors.CodeForbidden, ErrForbidden.Code)
	})
}
