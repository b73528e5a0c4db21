package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"users-api/internal/auth"
)

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotContains(t, hash, "correct horse")

	err = auth.ComparePasswordAndHash("correct horse battery staple", hash)
	assert.NoError(t, err)
}

func TestHashPasswordEmptyString(t *testing.T) {
	_, err := auth.HashPassword("")
	assert.ErrorIs(t, err, auth.ErrNoEmptyString)
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := auth.HashPassword("longenough")
	require.NoError(t, err)
	h2, err := auth.HashPassword("longenough")
	require.NoError(t, err)

	// each digest embeds a fresh salt
	assert.NotEqual(t, h1, h2)
	assert.NoError(t, auth.ComparePasswordAndHash("longenough", h1))
	assert.NoError(t, auth.ComparePasswordAndHash("longenough", h2))
}

func TestComparePasswordAndHashMismatch(t *testing.T) {
	hash, err := auth.HashPassword("longenough")
	require.NoError(t, err)

	err = auth.ComparePasswordAndHash("wrongpassword", hash)
	assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
}
