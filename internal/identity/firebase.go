package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/medictrans/oncall-api/internal/model"
	apperrors "github.com/medictrans/oncall-api/pkg/errors"
	jwtutil "github.com/medictrans/oncall-api/pkg/auth"
)

// Firebase ID tokens live for one hour.
const defaultTokenTTL = time.Hour

type FirebaseConfig struct {
	// APIKey is the web API key used for password sign-in and sign-up.
	APIKey string
	// App provides the Admin SDK. Without it Revoke is a local no-op and
	// VerifyIDToken is unavailable, which is enough for end-user clients.
	App *firebase.App
}

// Firebase implements Backend and TokenVerifier with Firebase Authentication.
type Firebase struct {
	toolkit *identitytoolkit.Service
	admin   *auth.Client
}

func NewFirebase(ctx context.Context, cfg FirebaseConfig) (*Firebase, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if host := os.Getenv("FIREBASE_AUTH_EMULATOR_HOST"); host != "" {
		opts = append(opts, option.WithEndpoint(
			fmt.Sprintf("http://%s/www.googleapis.com/identitytoolkit/v3/relyingparty/", host),
		))
	}

	toolkit, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit client: %w", err)
	}

	f := &Firebase{toolkit: toolkit}
	if cfg.App != nil {
		if f.admin, err = cfg.App.Auth(ctx); err != nil {
			return nil, fmt.Errorf("failed to create auth client: %w", err)
		}
	}
	return f, nil
}

func (f *Firebase) SignUp(ctx context.Context, email, password string) (*Credential, error) {
	resp, err := f.toolkit.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return nil, mapToolkitError(err)
	}
	return newCredential(resp.LocalId, resp.Email, resp.IdToken, resp.RefreshToken, resp.ExpiresIn), nil
}

func (f *Firebase) SignIn(ctx context.Context, email, password string) (*Credential, error) {
	resp, err := f.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, mapToolkitError(err)
	}
	return newCredential(resp.LocalId, resp.Email, resp.IdToken, resp.RefreshToken, resp.ExpiresIn), nil
}

func (f *Firebase) Revoke(ctx context.Context, uid string) error {
	if f.admin == nil {
		return nil
	}
	if err := f.admin.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	return nil
}

// VerifyIDToken rejects tokens that are invalid, expired or revoked.
func (f *Firebase) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	if f.admin == nil {
		return "", errors.New("token verification requires the admin SDK")
	}
	tok, err := f.admin.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return "", apperrors.Unauthorized(err)
	}
	return tok.UID, nil
}

func newCredential(uid, email, idToken, refreshToken string, expiresIn int64) *Credential {
	now := time.Now()
	ttl := defaultTokenTTL
	if expiresIn > 0 {
		ttl = time.Duration(expiresIn) * time.Second
	}
	return &Credential{
		UID:          uid,
		Email:        email,
		IDToken:      idToken,
		RefreshToken: refreshToken,
		ExpiresAt:    jwtutil.ExpiresAt(idToken, now, ttl),
	}
}

// mapToolkitError turns identity toolkit error codes into AppErrors.
func mapToolkitError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("identity service call failed: %w", err)
	}

	code := gerr.Message
	if i := strings.Index(code, " "); i > 0 {
		code = code[:i]
	}
	switch code {
	case "EMAIL_EXISTS":
		return apperrors.BadRequest("email already registered", err)
	case "INVALID_EMAIL", "WEAK_PASSWORD", "MISSING_PASSWORD":
		return apperrors.BadRequest("invalid email or password", err)
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return apperrors.Unauthorized(err)
	default:
		return fmt.Errorf("identity service call failed: %w", err)
	}
}

// Session converts a credential into the API response shape.
func (c *Credential) Session() *model.Session {
	return &model.Session{
		UserID:       c.UID,
		Email:        c.Email,
		IDToken:      c.IDToken,
		RefreshToken: c.RefreshToken,
		ExpiresAt:    c.ExpiresAt,
	}
}

var (
	_ Backend       = (*Firebase)(nil)
	_ TokenVerifier = (*Firebase)(nil)
)
