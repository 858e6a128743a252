package docstore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository"
)

type serviceRepository struct {
	db *DB
}

func NewServiceRepository(db *DB) repository.ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) col() *firestore.CollectionRef {
	return r.db.client.Collection(ServicesCollection)
}

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) (string, error) {
	start := time.Now()
	ref, _, err := r.col().Add(ctx, service)
	r.db.observe("create_service", start, err)
	if err != nil {
		return "", fail("create service", "service", err)
	}
	service.ID = ref.ID
	return ref.ID, nil
}

func (r *serviceRepository) List(ctx context.Context) ([]*model.Service, error) {
	start := time.Now()
	snaps, err := r.col().Documents(ctx).GetAll()
	r.db.observe("list_services", start, err)
	if err != nil {
		return nil, fail("list services", "service", err)
	}

	services := make([]*model.Service, 0, len(snaps))
	for _, snap := range snaps {
		var s model.Service
		if err := snap.DataTo(&s); err != nil {
			return nil, fail("decode service", "service", err)
		}
		s.ID = snap.Ref.ID
		services = append(services, &s)
	}
	return services, nil
}

func (r *serviceRepository) Update(ctx context.Context, id string, patch *model.ServicePatch) error {
	start := time.Now()
	err := update(ctx, r.col().Doc(id), serviceFields(patch))
	r.db.observe("update_service", start, err)
	if err != nil {
		return fail("update service", "service", err)
	}
	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	_, err := r.col().Doc(id).Delete(ctx)
	r.db.observe("delete_service", start, err)
	if err != nil {
		return fail("delete service", "service", err)
	}
	return nil
}
