package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	InitJWT("unit-test-secret")

	token, err := GenerateJWT("42", "USER", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "USER", claims.Role)
}

func TestParseJWTRejectsOtherSecret(t *testing.T) {
	InitJWT("first")
	token, err := GenerateJWT("1", "USER", time.Hour)
	require.NoError(t, err)

	InitJWT("second")
	_, err = ParseJWT(token)
	assert.Error(t, err)
}

func TestParseJWTRejectsExpired(t *testing.T) {
	InitJWT("unit-test-secret")
	token, err := GenerateJWT("1", "USER", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token)
	assert.Error(t, err)
}
