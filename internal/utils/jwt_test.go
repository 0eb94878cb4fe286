package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT(42, "admin@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateJWT(42, "admin@example.com")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "another-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWT_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
}
