package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/medictrans/oncall-api/internal/identity"
	"github.com/medictrans/oncall-api/internal/model"
	jwtutil "github.com/medictrans/oncall-api/pkg/auth"
	"github.com/medictrans/oncall-api/pkg/errors"
	"github.com/medictrans/oncall-api/pkg/httputil"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUser      = "user"
)

// UserLookup loads the application record of an identity.
type UserLookup interface {
	Get(ctx context.Context, id string) (*model.User, error)
}

type AuthMiddleware struct {
	verifier identity.TokenVerifier
	users    UserLookup
	roles    *cache.Cache
}

// NewAuthMiddleware caches user records for ttl, so role changes made in the
// store apply after at most ttl.
func NewAuthMiddleware(verifier identity.TokenVerifier, users UserLookup, ttl time.Duration) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		users:    users,
		roles:    cache.New(ttl, 2*ttl),
	}
}

// Authenticate verifies the bearer ID token and puts the caller's user
// record in the context. An identity without a record yet gets a record
// with no role, which only passes routes that need no role.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			httputil.RespondWithError(c, errors.Unauthorized(nil))
			return
		}

		uid, err := m.verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			httputil.RespondWithError(c, errors.Unauthorized(err))
			return
		}

		email := ""
		if claims, err := jwtutil.ParseUnverified(token); err == nil {
			email = claims.Email
		}

		user, err := m.lookup(c.Request.Context(), uid, email)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}

		c.Set(ContextUserID, uid)
		c.Set(ContextUserEmail, email)
		c.Set(ContextUser, user)
		c.Next()
	}
}

func (m *AuthMiddleware) lookup(ctx context.Context, uid, email string) (*model.User, error) {
	if cached, found := m.roles.Get(uid); found {
		return cached.(*model.User), nil
	}

	user, err := m.users.Get(ctx, uid)
	if errors.IsNotFound(err) {
		return &model.User{ID: uid, Email: email}, nil
	}
	if err != nil {
		return nil, err
	}

	m.roles.Set(uid, user, cache.DefaultExpiration)
	return user, nil
}

// Forget drops the cached record of uid.
func (m *AuthMiddleware) Forget(uid string) {
	m.roles.Delete(uid)
}

// RequireProfile rejects identities without a user record.
func (m *AuthMiddleware) RequireProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c).Role == "" {
			httputil.RespondWithError(c, errors.Forbidden("profile not set up"))
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin() {
			httputil.RespondWithError(c, errors.Forbidden("admin role required"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated caller, or nil on public routes.
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(ContextUser); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
