package identity

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	apperrors "github.com/medictrans/oncall-api/pkg/errors"
)

type fakeBackend struct {
	signInErr error
	revokeErr error
	revoked   []string
}

func (b *fakeBackend) SignUp(_ context.Context, email, _ string) (*Credential, error) {
	return &Credential{UID: "new-" + email, Email: email}, nil
}

func (b *fakeBackend) SignIn(_ context.Context, email, _ string) (*Credential, error) {
	if b.signInErr != nil {
		return nil, b.signInErr
	}
	return &Credential{UID: "uid-" + email, Email: email}, nil
}

func (b *fakeBackend) Revoke(_ context.Context, uid string) error {
	b.revoked = append(b.revoked, uid)
	return b.revokeErr
}

func TestClientSubscribeDeliversCurrentState(t *testing.T) {
	c := NewClient(&fakeBackend{})

	var got []*Credential
	unsubscribe := c.Subscribe(func(cred *Credential) { got = append(got, cred) })
	defer unsubscribe()

	require.Len(t, got, 1)
	assert.Nil(t, got[0])
}

func TestClientNotifiesOnSignInAndInvalidate(t *testing.T) {
	backend := &fakeBackend{}
	c := NewClient(backend)
	ctx := context.Background()

	var got []*Credential
	unsubscribe := c.Subscribe(func(cred *Credential) { got = append(got, cred) })

	cred, err := c.Authenticate(ctx, "a@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, cred, c.Current())

	require.NoError(t, c.Invalidate(ctx))
	assert.Nil(t, c.Current())
	assert.Equal(t, []string{"uid-a@example.com"}, backend.revoked)

	require.Len(t, got, 3)
	assert.Nil(t, got[0])
	assert.Equal(t, "uid-a@example.com", got[1].UID)
	assert.Nil(t, got[2])

	unsubscribe()
	_, err = c.CreateIdentity(ctx, "b@example.com", "secret")
	require.NoError(t, err)
	assert.Len(t, got, 3, "no delivery after unsubscribe")
}

func TestClientFailedSignInKeepsState(t *testing.T) {
	c := NewClient(&fakeBackend{signInErr: errors.New("invalid password")})

	calls := 0
	c.Subscribe(func(*Credential) { calls++ })

	_, err := c.Authenticate(context.Background(), "a@example.com", "wrong")
	assert.EqualError(t, err, "invalid password")
	assert.Nil(t, c.Current())
	assert.Equal(t, 1, calls)
}

func TestClientInvalidateClearsEvenWhenRevokeFails(t *testing.T) {
	c := NewClient(&fakeBackend{revokeErr: errors.New("unavailable")})
	ctx := context.Background()

	_, err := c.Authenticate(ctx, "a@example.com", "secret")
	require.NoError(t, err)

	assert.Error(t, c.Invalidate(ctx))
	assert.Nil(t, c.Current())
}

func TestClientInvalidateWithoutCredential(t *testing.T) {
	backend := &fakeBackend{}
	c := NewClient(backend)

	assert.NoError(t, c.Invalidate(context.Background()))
	assert.Empty(t, backend.revoked)
}

func TestMapToolkitError(t *testing.T) {
	exists := mapToolkitError(&googleapi.Error{Code: http.StatusBadRequest, Message: "EMAIL_EXISTS"})
	appErr, ok := apperrors.As(exists)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)

	badLogin := mapToolkitError(&googleapi.Error{Code: http.StatusBadRequest, Message: "INVALID_LOGIN_CREDENTIALS"})
	appErr, ok = apperrors.As(badLogin)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)

	weak := mapToolkitError(&googleapi.Error{Code: http.StatusBadRequest, Message: "WEAK_PASSWORD : Password should be at least 6 characters"})
	appErr, ok = apperrors.As(weak)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)

	_, ok = apperrors.As(mapToolkitError(errors.New("dial tcp: timeout")))
	assert.False(t, ok)
}
