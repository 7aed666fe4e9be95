package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/geocoder89/petmarket/internal/config"
	"github.com/geocoder89/petmarket/internal/domain/pet"
	"github.com/geocoder89/petmarket/internal/utils"
	"github.com/gin-gonic/gin"
)

type PetsRepository interface {
	List(ctx context.Context, f pet.ListFilter) ([]pet.Pet, int, error)
	ListOwned(ctx context.Context, scope pet.Scope) ([]pet.Pet, error)
	GetByID(ctx context.Context, id int64, scope pet.Scope) (pet.Pet, error)
	Create(ctx context.Context, req pet.CreatePetRequest) (pet.Pet, error)
	Update(ctx context.Context, id int64, req pet.UpdatePetRequest, scope pet.Scope) (pet.Pet, error)
	Patch(ctx context.Context, id int64, req pet.PatchPetRequest, scope pet.Scope) (pet.Pet, error)
	Delete(ctx context.Context, id int64, scope pet.Scope) error
}

// public routes act on every listing
var anyOwner = pet.Scope{All: true}

type PetsHandler struct {
	repo  PetsRepository
	lists *ListCache
}

func NewPetsHandler(repo PetsRepository) *PetsHandler {
	return &PetsHandler{repo: repo}
}

func NewPetsHandlerWithCache(repo PetsRepository, lists *ListCache) *PetsHandler {
	return &PetsHandler{repo: repo, lists: lists}
}

func (h *PetsHandler) ListPets(ctx *gin.Context) {
	var q pet.ListQuery

	if !BindQuery(ctx, &q) {
		return
	}

	filter := pet.NewListFilter(q)
	key := utils.BuildPetsListCacheKey(filter)

	if body, ok := h.lists.get(ctx.Request.Context(), key); ok {
		RespondRawJSONWithETag(ctx, http.StatusOK, body)
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	items, total, err := h.repo.List(cctx, filter)
	if err != nil {
		RespondFromError(ctx, err, "Could not list pets")
		return
	}

	body, err := json.Marshal(pet.NewPage(filter, items, total))
	if err != nil {
		RespondFromError(ctx, err, "Could not list pets")
		return
	}

	h.lists.set(ctx.Request.Context(), key, body)
	RespondRawJSONWithETag(ctx, http.StatusOK, body)
}

func (h *PetsHandler) GetPetByID(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	p, err := h.repo.GetByID(cctx, id, anyOwner)
	if err != nil {
		RespondFromError(ctx, err, "Could not fetch pet")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, p)
}

func (h *PetsHandler) CreatePet(ctx *gin.Context) {
	var req pet.CreatePetRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	p, err := h.repo.Create(cctx, req)
	if err != nil {
		RespondFromError(ctx, err, "Could not create pet")
		return
	}

	h.lists.invalidate(ctx)
	ctx.JSON(http.StatusCreated, p)
}

func (h *PetsHandler) UpdatePet(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req pet.UpdatePetRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	p, err := h.repo.Update(cctx, id, req, anyOwner)
	if err != nil {
		RespondFromError(ctx, err, "Could not update pet")
		return
	}

	h.lists.invalidate(ctx)
	ctx.JSON(http.StatusOK, p)
}

func (h *PetsHandler) DeletePet(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.Delete(cctx, id, anyOwner); err != nil {
		RespondFromError(ctx, err, "Could not delete pet")
		return
	}

	h.lists.invalidate(ctx)
	ctx.JSON(http.StatusOK, gin.H{"message": "Pet deleted"})
}
