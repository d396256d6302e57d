package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	tok, err := SignResetToken(secret, "user-123", 10*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	uid, err := VerifyResetToken(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", uid)
}

func TestResetTokenExpired(t *testing.T) {
	secret := []byte("test-secret")

	tok, err := SignResetToken(secret, "user-123", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyResetToken(secret, tok)
	assert.Error(t, err)
}

func TestResetTokenWrongSecret(t *testing.T) {
	tok, err := SignResetToken([]byte("secret-a"), "user-123", 10*time.Minute)
	require.NoError(t, err)

	_, err = VerifyResetToken([]byte("secret-b"), tok)
	assert.Error(t, err)
}

func TestResetTokenGarbage(t *testing.T) {
	_, err := VerifyResetToken([]byte("test-secret"), "not.a.token")
	assert.Error(t, err)
}
