package catalog

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository"
	"github.com/medictrans/oncall-api/internal/service/event"
	"github.com/medictrans/oncall-api/pkg/errors"
)

type CatalogServicer interface {
	List(ctx context.Context, locale model.Locale) ([]*model.Service, error)
	Create(ctx context.Context, in *model.CreateServiceRequest) (*model.Service, error)
	Update(ctx context.Context, id string, patch *model.ServicePatch) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	repo   repository.ServiceRepository
	events event.Emitter
}

func NewService(repo repository.ServiceRepository, events event.Emitter) *Service {
	return &Service{
		repo:   repo,
		events: events,
	}
}

// List returns the catalog with title, description and images picked for locale.
func (s *Service) List(ctx context.Context, locale model.Locale) ([]*model.Service, error) {
	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return lo.Map(services, func(svc *model.Service, _ int) *model.Service {
		return svc.Localized(locale)
	}), nil
}

func (s *Service) Create(ctx context.Context, in *model.CreateServiceRequest) (*model.Service, error) {
	svc := &model.Service{
		BGTitle:       in.BGTitle,
		ENTitle:       in.ENTitle,
		BGDescription: in.BGDescription,
		ENDescription: in.ENDescription,
	}
	if err := validateTitles(svc.BGTitle, svc.ENTitle); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	svc.ID = id

	s.events.Emit(ctx, event.ServiceChanged, map[string]string{"id": id, "change": "created"})
	return svc, nil
}

func (s *Service) Update(ctx context.Context, id string, patch *model.ServicePatch) error {
	var bg, en model.ServiceType
	if patch.BGTitle != nil {
		bg = *patch.BGTitle
	}
	if patch.ENTitle != nil {
		en = *patch.ENTitle
	}
	if err := validateTitles(bg, en); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	s.events.Emit(ctx, event.ServiceChanged, map[string]string{"id": id, "change": "updated"})
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}

	s.events.Emit(ctx, event.ServiceChanged, map[string]string{"id": id, "change": "deleted"})
	return nil
}

// validateTitles accepts empty titles, which stand for "unchanged".
func validateTitles(titles ...model.ServiceType) error {
	for _, t := range titles {
		if t != "" && !model.IsKnownServiceType(t) {
			return errors.BadRequest(fmt.Sprintf("unknown service title %q", t), nil)
		}
	}
	return nil
}

var _ CatalogServicer = (*Service)(nil)
