package users

import (
	"time"

	"users-api/internal/store"
)

// PublicUser is the projection of a user record safe to return to callers.
// Credential and reset fields never appear here.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Age       *int      `json:"age,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoginUser is the slim identity returned alongside a fresh access token.
type LoginUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResult is what a successful login hands back to the HTTP layer.
type LoginResult struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

func publicUser(u *store.User) *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
