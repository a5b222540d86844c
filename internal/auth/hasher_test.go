package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecretRoundTrip(t *testing.T) {
	secrets := []string{"hunter2", "123456", "", "pässwörd with spaces"}
	for _, s := range secrets {
		hash, err := HashSecret(s)
		require.NoError(t, err)
		require.NotEmpty(t, hash)

		ok, err := VerifySecret(s, hash)
		require.NoError(t, err)
		assert.True(t, ok, "secret %q should verify against its own hash", s)
	}
}

func TestHashSecretSaltsIndependently(t *testing.T) {
	h1, err := HashSecret("hunter2")
	require.NoError(t, err)
	h2, err := HashSecret("hunter2")
	require.NoError(t, err)
	// Fresh salt per call: equal inputs never produce equal hashes.
	assert.NotEqual(t, h1, h2)
}

func TestVerifySecretMismatch(t *testing.T) {
	hash, err := HashSecret("hunter2")
	require.NoError(t, err)

	ok, err := VerifySecret("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifySecretEmptyHashIsCallerError(t *testing.T) {
	ok, err := VerifySecret("hunter2", "")
	assert.ErrorIs(t, err, ErrNilHash)
	assert.False(t, ok)
}

func TestVerifySecretMalformedHashIsMismatch(t *testing.T) {
	for _, malformed := range []string{"not-a-bcrypt-hash", "$2a$xx$garbage", "plaintext"} {
		ok, err := VerifySecret("hunter2", malformed)
		require.NoError(t, err, "malformed hash %q must not raise", malformed)
		assert.False(t, ok)
	}
}
