package auth

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medictrans/oncall-api/internal/identity"
	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository/mocks"
	"github.com/medictrans/oncall-api/internal/service/event"
	"github.com/medictrans/oncall-api/pkg/errors"
)

type backend struct{ mock.Mock }

func (b *backend) SignUp(ctx context.Context, email, password string) (*identity.Credential, error) {
	args := b.Called(ctx, email, password)
	cred, _ := args.Get(0).(*identity.Credential)
	return cred, args.Error(1)
}

func (b *backend) SignIn(ctx context.Context, email, password string) (*identity.Credential, error) {
	args := b.Called(ctx, email, password)
	cred, _ := args.Get(0).(*identity.Credential)
	return cred, args.Error(1)
}

func (b *backend) Revoke(ctx context.Context, uid string) error {
	return b.Called(ctx, uid).Error(0)
}

var cred = &identity.Credential{
	UID:          "u1",
	Email:        "u1@example.com",
	IDToken:      "id-token",
	RefreshToken: "refresh-token",
	ExpiresAt:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
}

func TestRegister(t *testing.T) {
	b := &backend{}
	users := &mocks.UserRepository{}
	events := &mocks.Emitter{}
	svc := NewService(b, users, events)
	b.On("SignUp", mock.Anything, "u1@example.com", "secret1").Return(cred, nil)
	users.On("Create", mock.Anything, "u1", "u1@example.com").
		Return(&model.User{ID: "u1", Email: "u1@example.com", Role: model.RolePatient}, nil)

	session, err := svc.Register(context.Background(), "u1@example.com", "secret1")

	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, "id-token", session.IDToken)
	assert.Equal(t, cred.ExpiresAt, session.ExpiresAt)
	assert.Equal(t, []event.Type{event.UserRegistered}, events.Events)
	users.AssertExpectations(t)
}

func TestRegisterExistingEmail(t *testing.T) {
	b := &backend{}
	users := &mocks.UserRepository{}
	svc := NewService(b, users, &mocks.Emitter{})
	b.On("SignUp", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.BadRequest("email already registered", nil))

	_, err := svc.Register(context.Background(), "u1@example.com", "secret1")

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrBadRequest, appErr.Code)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterRecordFailure(t *testing.T) {
	b := &backend{}
	users := &mocks.UserRepository{}
	events := &mocks.Emitter{}
	svc := NewService(b, users, events)
	b.On("SignUp", mock.Anything, mock.Anything, mock.Anything).Return(cred, nil)
	users.On("Create", mock.Anything, "u1", "u1@example.com").Return(nil, stderrors.New("unavailable"))

	_, err := svc.Register(context.Background(), "u1@example.com", "secret1")

	require.Error(t, err)
	assert.Empty(t, events.Events)
}

func TestLogin(t *testing.T) {
	b := &backend{}
	svc := NewService(b, &mocks.UserRepository{}, &mocks.Emitter{})
	b.On("SignIn", mock.Anything, "u1@example.com", "secret1").Return(cred, nil)
	b.On("SignIn", mock.Anything, "u1@example.com", "wrong").Return(nil, errors.Unauthorized(nil))

	session, err := svc.Login(context.Background(), "u1@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "refresh-token", session.RefreshToken)

	_, err = svc.Login(context.Background(), "u1@example.com", "wrong")
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
}

func TestLogout(t *testing.T) {
	b := &backend{}
	svc := NewService(b, &mocks.UserRepository{}, &mocks.Emitter{})
	b.On("Revoke", mock.Anything, "u1").Return(nil)

	require.NoError(t, svc.Logout(context.Background(), "u1"))
	b.AssertExpectations(t)
}
