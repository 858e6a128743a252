package event

import (
	"context"
	"time"
)

type Type string

const (
	UserRegistered  Type = "user.registered"
	RequestCreated  Type = "request.created"
	RequestCanceled Type = "request.canceled"
	RequestDeleted  Type = "request.deleted"
	MessageCreated  Type = "message.created"
	QuestionCreated Type = "question.created"
	ServiceChanged  Type = "service.changed"
	MailQueued      Type = "mail.queued"
)

// Event is the envelope published to the broker.
type Event struct {
	ID         string      `json:"id"`
	Type       Type        `json:"type"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// Emitter publishes domain events. Emit never fails the caller; delivery
// problems are logged.
type Emitter interface {
	Emit(ctx context.Context, eventType Type, payload interface{})
}
