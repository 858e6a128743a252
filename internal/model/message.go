package model

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// Message is one entry of a request's conversation. Messages are immutable.
type Message struct {
	ID        string    `json:"id" firestore:"-"`
	RequestID string    `json:"request_id" firestore:"requestId"`
	CreatorID string    `json:"creator_id" firestore:"creatorId"`
	Body      string    `json:"body" firestore:"body"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

type CreateMessageRequest struct {
	Body   string `json:"body" binding:"required,max=5000"`
	Locale string `json:"locale" binding:"omitempty,locale"`
}

// IsAdminMessage reports whether the message author has the admin role.
// Authors missing from users count as non-admin.
func IsAdminMessage(msg *Message, users []*User) bool {
	return FindUser(users, msg.CreatorID).IsAdmin()
}

// MessagesFor returns the messages of requestID ordered by creation time.
// Messages with equal timestamps keep their relative order.
func MessagesFor(requestID string, messages []*Message) []*Message {
	scoped := lo.Filter(messages, func(m *Message, _ int) bool {
		return m.RequestID == requestID
	})
	sort.SliceStable(scoped, func(i, j int) bool {
		return scoped[i].CreatedAt.Before(scoped[j].CreatedAt)
	})
	return scoped
}

func HasMessages(requestID string, messages []*Message) bool {
	return lo.ContainsBy(messages, func(m *Message) bool {
		return m.RequestID == requestID
	})
}

func HasAdminMessages(requestID string, messages []*Message, users []*User) bool {
	return lo.ContainsBy(messages, func(m *Message) bool {
		return m.RequestID == requestID && IsAdminMessage(m, users)
	})
}

// IsLastMessageFromAdmin reports whether the request's conversation ends
// with an admin message, i.e. no patient message follows the latest admin one.
func IsLastMessageFromAdmin(requestID string, messages []*Message, users []*User) bool {
	conversation := MessagesFor(requestID, messages)
	if len(conversation) == 0 {
		return false
	}
	return IsAdminMessage(conversation[len(conversation)-1], users)
}
