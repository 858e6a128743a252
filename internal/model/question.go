package model

import "time"

// Question is a contact form submission from a visitor.
type Question struct {
	ID           string    `json:"id" firestore:"-"`
	CreatorName  string    `json:"creator_name" firestore:"creatorName"`
	CreatorEmail string    `json:"creator_email" firestore:"creatorEmail"`
	CreatorPhone string    `json:"creator_phone" firestore:"creatorPhone"`
	Message      string    `json:"message" firestore:"message"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
}

type CreateQuestionRequest struct {
	CreatorName  string `json:"creator_name" binding:"required,max=200"`
	CreatorEmail string `json:"creator_email" binding:"required,email"`
	CreatorPhone string `json:"creator_phone" binding:"omitempty,max=50"`
	Message      string `json:"message" binding:"required,max=5000"`
	Locale       string `json:"locale" binding:"omitempty,locale"`
}
