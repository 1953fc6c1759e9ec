package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("test-secret")

	token, exp, err := GenerateToken(secret, "rest-1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "rest-1", claims.RestaurantID)
	assert.Equal(t, "rest-1", claims.Subject)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _, err := GenerateToken([]byte("secret-a"), "rest-1", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("secret-b"), token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, _, err := GenerateToken([]byte("secret"), "rest-1", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken([]byte("secret"), token)
	assert.Error(t, err)
}
