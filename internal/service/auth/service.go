package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/medictrans/oncall-api/internal/identity"
	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository"
	"github.com/medictrans/oncall-api/internal/service/event"
)

type AuthServicer interface {
	Register(ctx context.Context, email, password string) (*model.Session, error)
	Login(ctx context.Context, email, password string) (*model.Session, error)
	Logout(ctx context.Context, uid string) error
}

// Service signs users in against the identity service. Passwords never
// reach this process's store.
type Service struct {
	backend identity.Backend
	users   repository.UserRepository
	events  event.Emitter
}

func NewService(backend identity.Backend, users repository.UserRepository, events event.Emitter) *Service {
	return &Service{
		backend: backend,
		users:   users,
		events:  events,
	}
}

// Register creates the identity and its patient record.
func (s *Service) Register(ctx context.Context, email, password string) (*model.Session, error) {
	cred, err := s.backend.SignUp(ctx, email, password)
	if err != nil {
		log.Warn().Err(err).Str("email", email).Msg("sign up failed")
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	if _, err := s.users.Create(ctx, cred.UID, cred.Email); err != nil {
		return nil, fmt.Errorf("failed to create user record: %w", err)
	}

	s.events.Emit(ctx, event.UserRegistered, map[string]string{"id": cred.UID})
	return cred.Session(), nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, error) {
	cred, err := s.backend.SignIn(ctx, email, password)
	if err != nil {
		log.Warn().Err(err).Str("email", email).Msg("sign in failed")
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	return cred.Session(), nil
}

// Logout revokes every refresh token of uid.
func (s *Service) Logout(ctx context.Context, uid string) error {
	if err := s.backend.Revoke(ctx, uid); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

var _ AuthServicer = (*Service)(nil)
