package pet

import (
	"time"

	"github.com/geocoder89/petmarket/internal/apperr"
)

// Pet is a single marketplace listing. CategoryName and UserName are
// display fields joined from categories and users.
type Pet struct {
	ID              int64     `json:"id"`
	UserID          *int64    `json:"user_id"`
	CategoryID      *int64    `json:"category_id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	Description     string    `json:"description"`
	Region          string    `json:"region"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	AdditionalPhone string    `json:"additional_phone"`
	Telegram        string    `json:"telegram"`
	Images          []string  `json:"images"`
	CategoryName    *string   `json:"category_name"`
	UserName        *string   `json:"user_name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

var (
	ErrNotFound         = apperr.New(apperr.ErrNotFound, "Pet not found")
	ErrInvalidReference = apperr.New(apperr.ErrValidation, "category_id or user_id does not exist")
	ErrEmptyPatch       = apperr.New(apperr.ErrValidation, "No fields to update")
)

type CreatePetRequest struct {
	UserID          *int64   `json:"user_id" binding:"omitempty,min=1"`
	CategoryID      *int64   `json:"category_id" binding:"omitempty,min=1"`
	Name            string   `json:"name" binding:"required,max=200"`
	Price           *float64 `json:"price" binding:"required,min=0,max=9999999999.99"`
	Description     string   `json:"description" binding:"max=5000"`
	Region          string   `json:"region" binding:"max=120"`
	Email           string   `json:"email" binding:"omitempty,email"`
	Phone           string   `json:"phone" binding:"max=32"`
	AdditionalPhone string   `json:"additional_phone" binding:"max=32"`
	Telegram        string   `json:"telegram" binding:"max=64"`
	Images          []string `json:"images" binding:"max=20,dive,max=2048"`
}

// UpdatePetRequest replaces every editable field. The owner never changes.
type UpdatePetRequest struct {
	CategoryID      *int64   `json:"category_id" binding:"omitempty,min=1"`
	Name            string   `json:"name" binding:"required,max=200"`
	Price           *float64 `json:"price" binding:"required,min=0,max=9999999999.99"`
	Description     string   `json:"description" binding:"max=5000"`
	Region          string   `json:"region" binding:"max=120"`
	Email           string   `json:"email" binding:"omitempty,email"`
	Phone           string   `json:"phone" binding:"max=32"`
	AdditionalPhone string   `json:"additional_phone" binding:"max=32"`
	Telegram        string   `json:"telegram" binding:"max=64"`
	Images          []string `json:"images" binding:"max=20,dive,max=2048"`
}

// PatchPetRequest changes only the fields present in the payload.
type PatchPetRequest struct {
	CategoryID      *int64    `json:"category_id" binding:"omitempty,min=1"`
	Name            *string   `json:"name" binding:"omitempty,min=1,max=200"`
	Price           *float64  `json:"price" binding:"omitempty,min=0,max=9999999999.99"`
	Description     *string   `json:"description" binding:"omitempty,max=5000"`
	Region          *string   `json:"region" binding:"omitempty,max=120"`
	Email           *string   `json:"email" binding:"omitempty,email"`
	Phone           *string   `json:"phone" binding:"omitempty,max=32"`
	AdditionalPhone *string   `json:"additional_phone" binding:"omitempty,max=32"`
	Telegram        *string   `json:"telegram" binding:"omitempty,max=64"`
	Images          *[]string `json:"images" binding:"omitempty,max=20"`
}

// Scope restricts admin operations to one owner unless All is set.
type Scope struct {
	UserID int64
	All    bool
}

func normalizeImages(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}

// ImagesOrEmpty returns a non-nil slice so the column never stores NULL.
func (r CreatePetRequest) ImagesOrEmpty() []string { return normalizeImages(r.Images) }

func (r UpdatePetRequest) ImagesOrEmpty() []string { return normalizeImages(r.Images) }
