package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("tr0mb0ne!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword("tr0mb0ne!", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("autre", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("même mot de passe")
	require.NoError(t, err)
	h2, err := HashPassword("même mot de passe")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("x", "$2a$10$pasunargonhash")
	assert.Error(t, err)
}
