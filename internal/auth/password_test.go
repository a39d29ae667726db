package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name  string
		plain string
	}{
		{name: "strong password", plain: "StrongPass1!"},
		{name: "short password", plain: "a"},
		{name: "unicode password", plain: "Pässwörd1!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.plain)
			require.NoError(t, err)
			assert.NotEqual(t, tt.plain, hash)
			assert.True(t, VerifyPassword(tt.plain, hash))
			assert.False(t, VerifyPassword(tt.plain+"x", hash))
		})
	}
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("StrongPass1!")
	require.NoError(t, err)
	second, err := HashPassword("StrongPass1!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPassword_EmptyHash(t *testing.T) {
	assert.False(t, VerifyPassword("StrongPass1!", ""))
	assert.False(t, VerifyPassword("profile-feed-dummy-password", ""))
}

func TestVerifyPassword_GarbageHash(t *testing.T) {
	assert.False(t, VerifyPassword("StrongPass1!", "not-a-bcrypt-hash"))
}
