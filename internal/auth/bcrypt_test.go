package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("sup3r-secret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "sup3r-secret", hash)

	assert.NoError(t, ComparePasswordAndHash("sup3r-secret", hash))
	assert.Error(t, ComparePasswordAndHash("wrong-password", hash))
}

func TestHashPassword_RejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestTemporaryPassword(t *testing.T) {
	seen := map[string]bool{}

	for i := 0; i < 20; i++ {
		pwd := TemporaryPassword()
		assert.Len(t, pwd, 12)
		assert.False(t, seen[pwd], "temporary passwords should not repeat")
		seen[pwd] = true
	}
}
