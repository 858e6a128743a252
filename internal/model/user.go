package model

import (
	"time"
)

// User roles
const (
	RolePatient = "patient"
	RoleAdmin   = "admin"
)

// User is the application record joined to an identity by its id.
type User struct {
	ID        string    `json:"id" firestore:"id"`
	Email     string    `json:"email" firestore:"email"`
	Role      string    `json:"role" firestore:"role"`
	Name      string    `json:"name,omitempty" firestore:"name,omitempty"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserPatch carries the fields of a partial user update. Nil fields are left untouched.
type UserPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// FindUser returns the user with the given id, or nil.
func FindUser(users []*User, id string) *User {
	for _, u := range users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// FirstAdmin returns the first user with the admin role, or nil.
func FirstAdmin(users []*User) *User {
	for _, u := range users {
		if u.IsAdmin() {
			return u
		}
	}
	return nil
}
