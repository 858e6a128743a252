package message

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medictrans/oncall-api/internal/email"
	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository"
	"github.com/medictrans/oncall-api/internal/service/event"
	"github.com/medictrans/oncall-api/internal/service/notification"
	"github.com/medictrans/oncall-api/pkg/errors"
)

type MessageServicer interface {
	Create(ctx context.Context, actor *model.User, requestID string, in *model.CreateMessageRequest) (*model.Message, error)
	List(ctx context.Context, actor *model.User, requestID string) ([]*model.Message, error)
}

type Service struct {
	repo     repository.MessageRepository
	requests repository.RequestRepository
	users    repository.UserRepository
	services repository.ServiceRepository
	mailer   notification.Queuer
	composer *email.Composer
	events   event.Emitter
}

func NewService(
	repo repository.MessageRepository,
	requests repository.RequestRepository,
	users repository.UserRepository,
	services repository.ServiceRepository,
	mailer notification.Queuer,
	composer *email.Composer,
	events event.Emitter,
) *Service {
	return &Service{
		repo:     repo,
		requests: requests,
		users:    users,
		services: services,
		mailer:   mailer,
		composer: composer,
		events:   events,
	}
}

// Create appends a message to the request's conversation and mails the
// other party.
func (s *Service) Create(ctx context.Context, actor *model.User, requestID string, in *model.CreateMessageRequest) (*model.Message, error) {
	r, err := s.request(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		RequestID: r.ID,
		CreatorID: actor.ID,
		Body:      in.Body,
		CreatedAt: time.Now(),
	}
	id, err := s.repo.Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	msg.ID = id

	s.notifyCounterpart(ctx, actor, r, msg, model.ParseLocale(in.Locale))
	s.events.Emit(ctx, event.MessageCreated, map[string]string{"id": id, "request_id": r.ID, "creator_id": actor.ID})

	return msg, nil
}

func (s *Service) List(ctx context.Context, actor *model.User, requestID string) ([]*model.Message, error) {
	r, err := s.request(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}

	messages, err := s.repo.ListByRequest(ctx, r.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (s *Service) request(ctx context.Context, actor *model.User, requestID string) (*model.Request, error) {
	r, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if !r.AccessibleBy(actor) {
		return nil, errors.Forbidden("request belongs to another patient")
	}
	return r, nil
}

// notifyCounterpart mails the first admin about patient messages and the
// patient about admin messages. The message is stored already, so failures
// are logged only.
func (s *Service) notifyCounterpart(ctx context.Context, actor *model.User, r *model.Request, msg *model.Message, locale model.Locale) {
	logger := log.With().Str("request_id", r.ID).Str("message_id", msg.ID).Logger()

	to, err := s.recipient(ctx, actor, r)
	if err != nil {
		logger.Error().Err(err).Msg("failed to resolve message recipient")
		return
	}
	if to == "" {
		logger.Warn().Msg("no recipient for message notification")
		return
	}

	services, err := s.services.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load services for message mail")
		return
	}

	mail := s.composer.ResponseReceived(locale, to, model.TitlesFor(r.ServiceIDs, services, locale), msg.Body)
	if err := s.mailer.Queue(ctx, mail); err != nil {
		logger.Error().Err(err).Msg("failed to queue message mail")
	}
}

func (s *Service) recipient(ctx context.Context, actor *model.User, r *model.Request) (string, error) {
	if actor.IsAdmin() {
		patient, err := s.users.Get(ctx, r.PatientID)
		if err != nil {
			return "", err
		}
		return patient.Email, nil
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return "", err
	}
	if first := model.FirstAdmin(users); first != nil {
		return first.Email, nil
	}
	return "", nil
}

var _ MessageServicer = (*Service)(nil)
