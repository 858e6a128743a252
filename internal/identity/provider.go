// Package identity talks to the identity service that owns passwords and
// issues credentials. Application user records live elsewhere and are
// joined by Credential.UID.
package identity

import (
	"context"
	"time"
)

// Credential is an active sign-in issued by the identity service.
type Credential struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Provider is the client-side view of the identity service: it holds at
// most one current credential and reports every change to subscribers.
type Provider interface {
	CreateIdentity(ctx context.Context, email, password string) (*Credential, error)
	Authenticate(ctx context.Context, email, password string) (*Credential, error)
	// Invalidate drops the current credential.
	Invalidate(ctx context.Context) error
	// Subscribe registers fn for credential changes. fn receives nil when
	// no credential is active. The returned func removes the subscription.
	Subscribe(fn func(*Credential)) (unsubscribe func())
}

// Backend is the stateless set of calls made against the identity service.
type Backend interface {
	SignUp(ctx context.Context, email, password string) (*Credential, error)
	SignIn(ctx context.Context, email, password string) (*Credential, error)
	// Revoke invalidates every refresh token issued to uid.
	Revoke(ctx context.Context, uid string) error
}

// TokenVerifier checks an ID token presented by a client and returns its uid.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (uid string, err error)
}
