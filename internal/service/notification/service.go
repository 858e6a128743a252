package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository"
	"github.com/medictrans/oncall-api/internal/service/event"
)

// Queuer hands a mail over to the relay.
type Queuer interface {
	Queue(ctx context.Context, mail *model.Email) error
}

type Service struct {
	repo   repository.EmailRepository
	events event.Emitter
}

func NewService(repo repository.EmailRepository, events event.Emitter) *Service {
	return &Service{
		repo:   repo,
		events: events,
	}
}

// Queue stores mail in the outbox as pending and wakes the relay.
func (s *Service) Queue(ctx context.Context, mail *model.Email) error {
	if mail.To == "" {
		return fmt.Errorf("invalid mail: recipient is required")
	}
	if mail.CreatedAt.IsZero() {
		mail.CreatedAt = time.Now()
	}
	mail.Delivery = model.Delivery{State: model.DeliveryPending}

	id, err := s.repo.Create(ctx, mail)
	if err != nil {
		return fmt.Errorf("failed to queue mail: %w", err)
	}

	log.Debug().Str("mail_id", id).Str("subject", mail.Message.Subject).Msg("mail queued")
	s.events.Emit(ctx, event.MailQueued, map[string]string{"id": id})
	return nil
}

var _ Queuer = (*Service)(nil)
