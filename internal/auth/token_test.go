package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := NewSessionToken("secret", "user-1", "staff", "a@x.com")
	require.NoError(t, err)

	claims, err := ParseSessionToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "authenticated", claims.Role)
	assert.Equal(t, "staff", claims.AppRole)
	assert.Equal(t, "a@x.com", claims.Email)

	// Seven-day validity, no refresh mechanism.
	remaining := time.Until(claims.ExpiresAt.Time)
	assert.InDelta(t, TokenValidity.Seconds(), remaining.Seconds(), 60)
}

func TestSessionTokenClientHasNoEmailClaim(t *testing.T) {
	token, err := NewSessionToken("secret", "user-2", "client", "")
	require.NoError(t, err)

	claims, err := ParseSessionToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "client", claims.AppRole)
	assert.Empty(t, claims.Email)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := NewSessionToken("secret", "user-1", "admin", "")
	require.NoError(t, err)

	_, err = ParseSessionToken("other-secret", token)
	assert.Error(t, err)
}

func TestSessionTokenGarbage(t *testing.T) {
	_, err := ParseSessionToken("secret", "not.a.token")
	assert.Error(t, err)
}

func TestNewSessionTokenRequiresSecret(t *testing.T) {
	_, err := NewSessionToken("", "user-1", "admin", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
