package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims holds the claims of a Firebase ID token that the application
// reads without verifying the signature. Signature checks belong to the
// Admin SDK verifier.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// ParseUnverified decodes token claims without checking the signature.
func ParseUnverified(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claims, nil
}

// ExpiresAt returns the exp claim of token. When the token carries no
// expiry, fallback is added to now.
func ExpiresAt(token string, now time.Time, fallback time.Duration) time.Time {
	claims, err := ParseUnverified(token)
	if err != nil || claims.ExpiresAt == nil {
		return now.Add(fallback)
	}
	return claims.ExpiresAt.Time
}
