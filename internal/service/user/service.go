package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository"
	"github.com/medictrans/oncall-api/pkg/errors"
)

type UserServicer interface {
	Get(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	UpdateProfile(ctx context.Context, actor *model.User, id string, in *model.UpdateProfileRequest) (*model.User, error)
	EnsureProfile(ctx context.Context, id, email string) (*model.User, error)
}

type Service struct {
	repo repository.UserRepository
}

func NewService(repo repository.UserRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfile changes the display name. Patients may only edit themselves.
func (s *Service) UpdateProfile(ctx context.Context, actor *model.User, id string, in *model.UpdateProfileRequest) (*model.User, error) {
	if actor == nil || (actor.ID != id && !actor.IsAdmin()) {
		return nil, errors.Forbidden("cannot edit another user's profile")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.BadRequest("name must not be blank", nil)
	}

	if err := s.repo.Update(ctx, id, &model.UserPatch{Name: &name}); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.Get(ctx, id)
}

// EnsureProfile returns the user record for an identity, creating a patient
// record when none exists yet.
func (s *Service) EnsureProfile(ctx context.Context, id, email string) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user, err = s.repo.Create(ctx, id, email)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

var _ UserServicer = (*Service)(nil)
