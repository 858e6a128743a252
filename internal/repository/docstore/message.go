package docstore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/medictrans/oncall-api/internal/model"
	"github.com/medictrans/oncall-api/internal/repository"
)

type messageRepository struct {
	db *DB
}

func NewMessageRepository(db *DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

// col returns requests/{requestID}/messages.
func (r *messageRepository) col(requestID string) *firestore.CollectionRef {
	return r.db.client.Collection(RequestsCollection).Doc(requestID).Collection(MessagesCollection)
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) (string, error) {
	start := time.Now()
	ref, _, err := r.col(message.RequestID).Add(ctx, message)
	r.db.observe("create_message", start, err)
	if err != nil {
		return "", fail("create message", "message", err)
	}
	message.ID = ref.ID
	return ref.ID, nil
}

func (r *messageRepository) ListByRequest(ctx context.Context, requestID string) ([]*model.Message, error) {
	start := time.Now()
	snaps, err := r.col(requestID).OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	r.db.observe("list_messages", start, err)
	if err != nil {
		return nil, fail("list messages", "message", err)
	}

	messages := make([]*model.Message, 0, len(snaps))
	for _, snap := range snaps {
		var m model.Message
		if err := snap.DataTo(&m); err != nil {
			return nil, fail("decode message", "message", err)
		}
		m.ID = snap.Ref.ID
		if m.RequestID == "" {
			m.RequestID = requestID
		}
		m.CreatedAt = Timestamp(m.CreatedAt)
		messages = append(messages, &m)
	}
	return messages, nil
}
