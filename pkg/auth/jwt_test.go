package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestParseUnverified(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	token := signed(t, TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp), Subject: "uid-1"},
		UserID:           "uid-1",
		Email:            "a@example.com",
	})

	claims, err := ParseUnverified(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.True(t, exp.Equal(claims.ExpiresAt.Time))
}

func TestExpiresAt(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	exp := now.Add(30 * time.Minute)

	token := signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})
	assert.True(t, exp.Equal(ExpiresAt(token, now, time.Hour)))

	noExp := signed(t, jwt.RegisteredClaims{Subject: "x"})
	assert.Equal(t, now.Add(time.Hour), ExpiresAt(noExp, now, time.Hour))

	assert.Equal(t, now.Add(time.Hour), ExpiresAt("not-a-token", now, time.Hour))
}
