package model

import (
	"time"
)

type DeliveryState string

const (
	DeliveryPending DeliveryState = "PENDING"
	DeliverySuccess DeliveryState = "SUCCESS"
	DeliveryError   DeliveryState = "ERROR"
)

type EmailMessage struct {
	Subject string `json:"subject" firestore:"subject"`
	Text    string `json:"text" firestore:"text"`
	HTML    string `json:"html" firestore:"html"`
}

// Delivery is maintained by the mail relay only.
type Delivery struct {
	State       DeliveryState `json:"state" firestore:"state"`
	Attempts    int           `json:"attempts" firestore:"attempts"`
	Error       string        `json:"error,omitempty" firestore:"error,omitempty"`
	DeliveredAt *time.Time    `json:"delivered_at,omitempty" firestore:"deliveredAt,omitempty"`
}

// Email is an outbound mail queued in the mails collection.
type Email struct {
	ID        string       `json:"id" firestore:"-"`
	To        string       `json:"to" firestore:"to"`
	Message   EmailMessage `json:"message" firestore:"message"`
	CreatedAt time.Time    `json:"created_at" firestore:"createdAt"`
	Delivery  Delivery     `json:"delivery" firestore:"delivery"`
}
