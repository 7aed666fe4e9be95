package pet

import (
	"strings"
)

const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 9999999
	DefaultPage     = 1
	DefaultLimit    = 12
	MaxLimit        = 100
)

// Clause is one SQL fragment and the value bound to it. Template holds a
// single %d verb that the repository replaces with the placeholder index.
type Clause struct {
	Template string
	Value    any
}

// ListQuery is the raw query string of GET /pets.
type ListQuery struct {
	MinPrice   *float64 `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice   *float64 `form:"max_price" binding:"omitempty,min=0"`
	CategoryID *int64   `form:"category_id" binding:"omitempty,min=1"`
	Region     *string  `form:"region"`
	Name       *string  `form:"name"`
	Page       int      `form:"page" binding:"omitempty,min=1"`
	Limit      int      `form:"limit" binding:"omitempty,min=1,max=100"`
}

// with pointers if optional, it will be nil
type ListFilter struct {
	MinPrice   float64
	MaxPrice   float64
	CategoryID *int64
	Region     *string
	Name       *string
	Page       int
	Limit      int
}

func NewListFilter(q ListQuery) ListFilter {
	f := ListFilter{
		MinPrice:   DefaultMinPrice,
		MaxPrice:   DefaultMaxPrice,
		CategoryID: q.CategoryID,
		Region:     nonBlank(q.Region),
		Name:       nonBlank(q.Name),
		Page:       DefaultPage,
		Limit:      DefaultLimit,
	}

	if q.MinPrice != nil {
		f.MinPrice = *q.MinPrice
	}
	if q.MaxPrice != nil {
		f.MaxPrice = *q.MaxPrice
	}
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.Limit > 0 {
		f.Limit = min(q.Limit, MaxLimit)
	}

	return f
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Predicates returns the WHERE conditions in a fixed order. The price range
// is always present; the other filters only when set.
func (f ListFilter) Predicates() []Clause {
	preds := []Clause{
		{Template: "pets.price >= $%d", Value: f.MinPrice},
		{Template: "pets.price <= $%d", Value: f.MaxPrice},
	}

	if f.CategoryID != nil {
		preds = append(preds, Clause{Template: "pets.category_id = $%d", Value: *f.CategoryID})
	}

	if f.Region != nil {
		preds = append(preds, Clause{Template: "pets.region = $%d", Value: *f.Region})
	}

	if f.Name != nil {
		preds = append(preds, Clause{Template: "pets.name ILIKE $%d", Value: "%" + escapeLike(*f.Name) + "%"})
	}

	return preds
}

// Assignments returns the SET list for a partial update, in column order.
func (r PatchPetRequest) Assignments() []Clause {
	var out []Clause

	if r.CategoryID != nil {
		out = append(out, Clause{Template: "category_id = $%d", Value: *r.CategoryID})
	}
	if r.Name != nil {
		out = append(out, Clause{Template: "name = $%d", Value: *r.Name})
	}
	if r.Price != nil {
		out = append(out, Clause{Template: "price = $%d", Value: *r.Price})
	}
	if r.Description != nil {
		out = append(out, Clause{Template: "description = $%d", Value: *r.Description})
	}
	if r.Region != nil {
		out = append(out, Clause{Template: "region = $%d", Value: *r.Region})
	}
	if r.Email != nil {
		out = append(out, Clause{Template: "email = $%d", Value: *r.Email})
	}
	if r.Phone != nil {
		out = append(out, Clause{Template: "phone = $%d", Value: *r.Phone})
	}
	if r.AdditionalPhone != nil {
		out = append(out, Clause{Template: "additional_phone = $%d", Value: *r.AdditionalPhone})
	}
	if r.Telegram != nil {
		out = append(out, Clause{Template: "telegram = $%d", Value: *r.Telegram})
	}
	if r.Images != nil {
		out = append(out, Clause{Template: "images = $%d", Value: normalizeImages(*r.Images)})
	}

	return out
}

// Page is the GET /pets response envelope.
type Page struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int   `json:"total"`
	TotalPages int   `json:"totalPages"`
	TotalItems int   `json:"totalItems"`
	Data       []Pet `json:"data"`
}

func NewPage(f ListFilter, items []Pet, totalItems int) Page {
	if items == nil {
		items = []Pet{}
	}

	return Page{
		Page:       f.Page,
		Limit:      f.Limit,
		Total:      len(items),
		TotalPages: TotalPages(totalItems, f.Limit),
		TotalItems: totalItems,
		Data:       items,
	}
}

// TotalPages is ceil(totalItems/limit).
func TotalPages(totalItems, limit int) int {
	if limit <= 0 || totalItems <= 0 {
		return 0
	}
	return (totalItems + limit - 1) / limit
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// escapeLike makes % and _ in user input match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Predicates selects one listing by id, limited to the owner unless All.
func (s Scope) Predicates(id int64) []Clause {
	preds := []Clause{{Template: "pets.id = $%d", Value: id}}

	if !s.All {
		preds = append(preds, Clause{Template: "pets.user_id = $%d", Value: s.UserID})
	}

	return preds
}
