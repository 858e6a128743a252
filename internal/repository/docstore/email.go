package docstore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository"
)

// emailRepository serves both the API (queueing) and the mail relay
// (draining) sides of the mails collection.
type emailRepository struct {
	db *DB
}

func NewEmailRepository(db *DB) repository.EmailRepository {
	return &emailRepository{db: db}
}

func NewMailOutbox(db *DB) repository.MailOutbox {
	return &emailRepository{db: db}
}

func (r *emailRepository) col() *firestore.CollectionRef {
	return r.db.client.Collection(MailsCollection)
}

func (r *emailRepository) Create(ctx context.Context, email *model.Email) (string, error) {
	if email.Delivery.State == "" {
		email.Delivery.State = model.DeliveryPending
	}

	start := time.Now()
	ref, _, err := r.col().Add(ctx, email)
	r.db.observe("create_mail", start, err)
	if err != nil {
		return "", fail("create mail", "mail", err)
	}
	email.ID = ref.ID
	return ref.ID, nil
}

// ListPending filters on the delivery state alone and orders in memory, so
// the query is served by the single-field index.
func (r *emailRepository) ListPending(ctx context.Context, limit int) ([]*model.Email, error) {
	start := time.Now()
	snaps, err := r.col().
		Where("delivery.state", "==", string(model.DeliveryPending)).
		Documents(ctx).
		GetAll()
	r.db.observe("list_pending_mails", start, err)
	if err != nil {
		return nil, fail("list pending mails", "mail", err)
	}

	mails := make([]*model.Email, 0, len(snaps))
	for _, snap := range snaps {
		var m model.Email
		if err := snap.DataTo(&m); err != nil {
			return nil, fail("decode mail", "mail", err)
		}
		m.ID = snap.Ref.ID
		m.CreatedAt = Timestamp(m.CreatedAt)
		mails = append(mails, &m)
	}

	sort.SliceStable(mails, func(i, j int) bool {
		return mails[i].CreatedAt.Before(mails[j].CreatedAt)
	})
	if limit > 0 && len(mails) > limit {
		mails = mails[:limit]
	}
	return mails, nil
}

func (r *emailRepository) MarkDelivered(ctx context.Context, id string, attempts int) error {
	start := time.Now()
	err := update(ctx, r.col().Doc(id), map[string]interface{}{
		"delivery.state":       string(model.DeliverySuccess),
		"delivery.attempts":    attempts,
		"delivery.deliveredAt": time.Now().UTC(),
	})
	r.db.observe("mark_mail_delivered", start, err)
	if err != nil {
		return fail("mark mail delivered", "mail", err)
	}
	return nil
}

func (r *emailRepository) MarkFailed(ctx context.Context, id string, attempts int, cause error) error {
	start := time.Now()
	err := update(ctx, r.col().Doc(id), map[string]interface{}{
		"delivery.state":    string(model.DeliveryError),
		"delivery.attempts": attempts,
		"delivery.error":    cause.Error(),
	})
	r.db.observe("mark_mail_failed", start, err)
	if err != nil {
		return fail("mark mail failed", "mail", err)
	}
	return nil
}
