package user

import (
	"time"

	"github.com/geocoder89/petmarket/internal/apperr"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public view served by GET /users/:id.
type Profile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email}
}

var (
	ErrNotFound   = apperr.New(apperr.ErrNotFound, "User not found")
	ErrEmailTaken = apperr.New(apperr.ErrConflict, "Email is already in use")
)

type SignUpRequest struct {
	Name     string `json:"name" binding:"required,max=120"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
