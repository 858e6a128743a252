package docstore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository"
)

type requestRepository struct {
	db *DB
}

func NewRequestRepository(db *DB) repository.RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) col() *firestore.CollectionRef {
	return r.db.client.Collection(RequestsCollection)
}

func (r *requestRepository) Create(ctx context.Context, request *model.Request) (string, error) {
	start := time.Now()
	ref, _, err := r.col().Add(ctx, request)
	r.db.observe("create_request", start, err)
	if err != nil {
		return "", fail("create request", "request", err)
	}
	request.ID = ref.ID
	return ref.ID, nil
}

func (r *requestRepository) Get(ctx context.Context, id string) (*model.Request, error) {
	start := time.Now()
	snap, err := r.col().Doc(id).Get(ctx)
	r.db.observe("get_request", start, err)
	if err != nil {
		return nil, fail("get request", "request", err)
	}
	return decodeRequest(snap)
}

func (r *requestRepository) List(ctx context.Context) ([]*model.Request, error) {
	return r.query(ctx, "list_requests", r.col().OrderBy("appointment", firestore.Asc))
}

// ListByPatient orders in memory; an equality filter combined with an order
// on another field would need a composite index.
func (r *requestRepository) ListByPatient(ctx context.Context, patientID string) ([]*model.Request, error) {
	requests, err := r.query(ctx, "list_patient_requests", r.col().Where("patientId", "==", patientID))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].Appointment.Before(requests[j].Appointment)
	})
	return requests, nil
}

func (r *requestRepository) query(ctx context.Context, op string, q firestore.Query) ([]*model.Request, error) {
	start := time.Now()
	snaps, err := q.Documents(ctx).GetAll()
	r.db.observe(op, start, err)
	if err != nil {
		return nil, fail("list requests", "request", err)
	}

	requests := make([]*model.Request, 0, len(snaps))
	for _, snap := range snaps {
		req, err := decodeRequest(snap)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func (r *requestRepository) Update(ctx context.Context, id string, patch *model.RequestPatch) error {
	start := time.Now()
	err := update(ctx, r.col().Doc(id), requestFields(patch))
	r.db.observe("update_request", start, err)
	if err != nil {
		return fail("update request", "request", err)
	}
	return nil
}

func (r *requestRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	_, err := r.col().Doc(id).Delete(ctx)
	r.db.observe("delete_request", start, err)
	if err != nil {
		return fail("delete request", "request", err)
	}
	return nil
}

func decodeRequest(snap *firestore.DocumentSnapshot) (*model.Request, error) {
	var req model.Request
	if err := snap.DataTo(&req); err != nil {
		return nil, fail("decode request", "request", err)
	}
	req.ID = snap.Ref.ID
	req.Appointment = Timestamp(req.Appointment)
	req.CreatedAt = Timestamp(req.CreatedAt)
	return &req, nil
}
