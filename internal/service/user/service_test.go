package user

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository/mocks"
	"github.com/medictrans/oncall-api/pkg/errors"
)

var (
	patient = &model.User{ID: "p1", Email: "p1@example.com", Role: model.RolePatient}
	admin   = &model.User{ID: "a1", Email: "a1@example.com", Role: model.RoleAdmin}
)

func TestUpdateProfileSelf(t *testing.T) {
	repo := &mocks.UserRepository{}
	svc := NewService(repo)
	repo.On("Update", mock.Anything, "p1", mock.MatchedBy(func(p *model.UserPatch) bool {
		return p.Name != nil && *p.Name == "Ivan" && p.Email == nil && p.Role == nil
	})).Return(nil)
	repo.On("Get", mock.Anything, "p1").Return(&model.User{ID: "p1", Name: "Ivan", Role: model.RolePatient}, nil)

	user, err := svc.UpdateProfile(context.Background(), patient, "p1", &model.UpdateProfileRequest{Name: "  Ivan "})

	require.NoError(t, err)
	assert.Equal(t, "Ivan", user.Name)
	repo.AssertExpectations(t)
}

func TestUpdateProfileOfOtherUser(t *testing.T) {
	repo := &mocks.UserRepository{}
	svc := NewService(repo)
	repo.On("Update", mock.Anything, "p2", mock.Anything).Return(nil)
	repo.On("Get", mock.Anything, "p2").Return(&model.User{ID: "p2"}, nil)

	_, err := svc.UpdateProfile(context.Background(), patient, "p2", &model.UpdateProfileRequest{Name: "X"})
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	_, err = svc.UpdateProfile(context.Background(), admin, "p2", &model.UpdateProfileRequest{Name: "X"})
	require.NoError(t, err)
}

func TestUpdateProfileBlankName(t *testing.T) {
	svc := NewService(&mocks.UserRepository{})

	_, err := svc.UpdateProfile(context.Background(), patient, "p1", &model.UpdateProfileRequest{Name: "   "})

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrBadRequest, appErr.Code)
}

func TestEnsureProfileExisting(t *testing.T) {
	repo := &mocks.UserRepository{}
	svc := NewService(repo)
	repo.On("Get", mock.Anything, "p1").Return(patient, nil)

	user, err := svc.EnsureProfile(context.Background(), "p1", "p1@example.com")

	require.NoError(t, err)
	assert.Equal(t, patient, user)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureProfileCreatesPatient(t *testing.T) {
	repo := &mocks.UserRepository{}
	svc := NewService(repo)
	created := &model.User{ID: "p3", Email: "p3@example.com", Role: model.RolePatient}
	repo.On("Get", mock.Anything, "p3").Return(nil, errors.NotFound("user", nil))
	repo.On("Create", mock.Anything, "p3", "p3@example.com").Return(created, nil)

	user, err := svc.EnsureProfile(context.Background(), "p3", "p3@example.com")

	require.NoError(t, err)
	assert.Equal(t, model.RolePatient, user.Role)
}

func TestEnsureProfileStoreFailure(t *testing.T) {
	repo := &mocks.UserRepository{}
	svc := NewService(repo)
	repo.On("Get", mock.Anything, "p1").Return(nil, stderrors.New("unavailable"))

	_, err := svc.EnsureProfile(context.Background(), "p1", "p1@example.com")

	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}
