package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/petmarket/internal/config"
	"github.com/geocoder89/petmarket/internal/domain/category"
	"github.com/gin-gonic/gin"
)

type CategoriesRepository interface {
	List(ctx context.Context) ([]category.Category, error)
	GetByID(ctx context.Context, id int64) (category.Category, error)
	Create(ctx context.Context, req category.CreateCategoryRequest) (category.Category, error)
	Delete(ctx context.Context, id int64) error
}

type CategoriesHandler struct {
	repo CategoriesRepository
	// deleting a category nulls pets.category_id, so cached pages go stale
	lists *ListCache
}

func NewCategoriesHandler(repo CategoriesRepository, lists *ListCache) *CategoriesHandler {
	return &CategoriesHandler{repo: repo, lists: lists}
}

func (h *CategoriesHandler) ListCategories(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	items, err := h.repo.List(cctx)
	if err != nil {
		RespondFromError(ctx, err, "Could not list categories")
		return
	}

	if items == nil {
		items = []category.Category{}
	}

	ctx.JSON(http.StatusOK, items)
}

func (h *CategoriesHandler) GetCategoryByID(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	c, err := h.repo.GetByID(cctx, id)
	if err != nil {
		RespondFromError(ctx, err, "Could not fetch category")
		return
	}

	ctx.JSON(http.StatusOK, c)
}

func (h *CategoriesHandler) CreateCategory(ctx *gin.Context) {
	var req category.CreateCategoryRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	c, err := h.repo.Create(cctx, req)
	if err != nil {
		RespondFromError(ctx, err, "Could not create category")
		return
	}

	h.lists.invalidate(ctx)
	ctx.JSON(http.StatusCreated, c)
}

func (h *CategoriesHandler) DeleteCategory(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.Delete(cctx, id); err != nil {
		RespondFromError(ctx, err, "Could not delete category")
		return
	}

	h.lists.invalidate(ctx)
	ctx.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
