package question

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
)

type QuestionServicer interface {
	Create(ctx context.Context, in *model.CreateQuestionRequest) (*model.Question, error)
	List(ctx context.Context) ([]*model.Question, error)
}

type Service struct {
	repo     repository.QuestionRepository
	mailer   notification.Queuer
	composer *email.Composer
	events   event.Emitter
}

func NewService(repo repository.QuestionRepository, mailer notification.Queuer, composer *email.Composer, events event.Emitter) *Service {
	return &Service{
		repo:     repo,
		mailer:   mailer,
		composer: composer,
		events:   events,
	}
}

// Create stores a contact form submission and mails a copy to the visitor.
func (s *Service) Create(ctx context.Context, in *model.CreateQuestionRequest) (*model.Question, error) {
	q := &model.Question{
		CreatorName:  in.CreatorName,
		CreatorEmail: in.CreatorEmail,
		CreatorPhone: in.CreatorPhone,
		Message:      in.Message,
		CreatedAt:    time.Now(),
	}

	id, err := s.repo.Create(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	q.ID = id

	mail := s.composer.QuestionReceived(model.ParseLocale(in.Locale), q.CreatorEmail, q.CreatorName, q.Message)
	if err := s.mailer.Queue(ctx, mail); err != nil {
		log.Error().Err(err).Str("question_id", id).Msg("failed to queue question mail")
	}
	s.events.Emit(ctx, event.QuestionCreated, map[string]string{"id": id})

	return q, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Question, error) {
	questions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

var _ QuestionServicer = (*Service)(nil)
