package category

import "github.com/geocoder89/petmarket/internal/apperr"

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

var ErrNotFound = apperr.New(apperr.ErrNotFound, "Category not found")

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=80"`
}
