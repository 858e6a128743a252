package request

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

type RequestServicer interface {
	Create(ctx context.Context, actor *model.User, in *model.CreateRequestRequest) (*model.Request, error)
	ListForPatient(ctx context.Context, patientID string) ([]*model.Request, error)
	ListAll(ctx context.Context) ([]*model.Request, error)
	Get(ctx context.Context, actor *model.User, id string) (*model.Request, error)
	Cancel(ctx context.Context, actor *model.User, id string) error
	Delete(ctx context.Context, actor *model.User, id string) error
}

type Service struct {
	repo     repository.RequestRepository
	services repository.ServiceRepository
	mailer   notification.Queuer
	composer *email.Composer
	events   event.Emitter
}

func NewService(
	repo repository.RequestRepository,
	services repository.ServiceRepository,
	mailer notification.Queuer,
	composer *email.Composer,
	events event.Emitter,
) *Service {
	return &Service{
		repo:     repo,
		services: services,
		mailer:   mailer,
		composer: composer,
		events:   events,
	}
}

// Create books a visit for actor and sends the confirmation mail.
func (s *Service) Create(ctx context.Context, actor *model.User, in *model.CreateRequestRequest) (*model.Request, error) {
	if actor == nil {
		return nil, errors.Unauthorized(nil)
	}

	r := &model.Request{
		PatientID:        actor.ID,
		PatientFirstName: in.PatientFirstName,
		PatientLastName:  in.PatientLastName,
		PatientPhone:     in.PatientPhone,
		PatientStreet:    in.PatientStreet,
		PatientCity:      in.PatientCity,
		PatientCountry:   in.PatientCountry,
		HospitalStreet:   in.HospitalStreet,
		HospitalCity:     in.HospitalCity,
		HospitalCountry:  in.HospitalCountry,
		ServiceIDs:       in.ServiceIDs,
		Appointment:      in.Appointment,
		Additional:       in.Additional,
		Canceled:         false,
		CreatedAt:        time.Now(),
	}

	id, err := s.repo.Create(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	r.ID = id

	s.sendConfirmation(ctx, actor, r, model.ParseLocale(in.Locale))
	s.events.Emit(ctx, event.RequestCreated, map[string]string{"id": id, "patient_id": actor.ID})

	return r, nil
}

// The request is already stored, so mail problems are only logged.
func (s *Service) sendConfirmation(ctx context.Context, actor *model.User, r *model.Request, locale model.Locale) {
	services, err := s.services.List(ctx)
	if err != nil {
		log.Error().Err(err).Str("request_id", r.ID).Msg("failed to load services for confirmation mail")
		return
	}

	mail := s.composer.RequestCreated(locale, actor.Email, model.TitlesFor(r.ServiceIDs, services, locale))
	if err := s.mailer.Queue(ctx, mail); err != nil {
		log.Error().Err(err).Str("request_id", r.ID).Msg("failed to queue confirmation mail")
	}
}

// ListForPatient returns upcoming, past and canceled requests in that order.
func (s *Service) ListForPatient(ctx context.Context, patientID string) ([]*model.Request, error) {
	requests, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return model.SortRequests(requests), nil
}

func (s *Service) ListAll(ctx context.Context) ([]*model.Request, error) {
	requests, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

func (s *Service) Get(ctx context.Context, actor *model.User, id string) (*model.Request, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if !r.AccessibleBy(actor) {
		return nil, errors.Forbidden("request belongs to another patient")
	}
	return r, nil
}

func (s *Service) Cancel(ctx context.Context, actor *model.User, id string) error {
	r, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if r.Canceled {
		return nil
	}

	canceled := true
	if err := s.repo.Update(ctx, id, &model.RequestPatch{Canceled: &canceled}); err != nil {
		return fmt.Errorf("failed to cancel request: %w", err)
	}

	s.events.Emit(ctx, event.RequestCanceled, map[string]string{"id": id, "by": actor.ID})
	return nil
}

func (s *Service) Delete(ctx context.Context, actor *model.User, id string) error {
	if !actor.IsAdmin() {
		return errors.Forbidden("only admins can delete requests")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}

	s.events.Emit(ctx, event.RequestDeleted, map[string]string{"id": id})
	return nil
}

var _ RequestServicer = (*Service)(nil)
