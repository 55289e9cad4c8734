package auth_test

import (
	"testing"

	"github.com/storekit/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("sup3r-secret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "sup3r-secret", hash)

	// same password never hashes to the same value twice
	again, err := auth.HashPassword("sup3r-secret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
}

func TestHashPasswordEmpty(t *testing.T) {
	_, err := auth.HashPassword("")
	assert.ErrorIs(t, err, auth.ErrNoEmptyPassword)
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := auth.HashPassword("sup3r-secret")
	require.NoError(t, err)

	assert.NoError(t, auth.ComparePasswordAndHash("sup3r-secret", hash))

	err = auth.ComparePasswordAndHash("wrong-password", hash)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
