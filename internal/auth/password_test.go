package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotContains(t, hash, "correct horse")

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	h1, err := HashPassword("same input")
	require.NoError(t, err)
	h2, err := HashPassword("same input")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestEmptyPasswordRejected(t *testing.T) {
	_, err := HashPassword("")
	require.Error(t, err)
}

func TestMalformedHash(t *testing.T) {
	_, err := VerifyPassword("x", "not-a-hash")
	require.Error(t, err)

	_, err = VerifyPassword("x", "argon2id$1$2$3$!!$??")
	require.Error(t, err)
}
