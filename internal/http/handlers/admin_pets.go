package handlers

import (
	"net/http"
	"time"

	"github.com/geocoder89/petmarket/internal/config"
	"github.com/geocoder89/petmarket/internal/domain/pet"
	"github.com/geocoder89/petmarket/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// AdminPetsHandler serves the listing dashboard. Every route runs behind
// RequireAuth; regular users manage their own listings, admins manage all.
type AdminPetsHandler struct {
	repo  PetsRepository
	lists *ListCache
}

func NewAdminPetsHandler(repo PetsRepository, lists *ListCache) *AdminPetsHandler {
	return &AdminPetsHandler{repo: repo, lists: lists}
}

func scopeFrom(ctx *gin.Context) (pet.Scope, bool) {
	id, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return pet.Scope{}, false
	}

	return pet.Scope{UserID: id, All: middlewares.IsAdminFromContext(ctx)}, true
}

func (h *AdminPetsHandler) ListPets(ctx *gin.Context) {
	scope, ok := scopeFrom(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	items, err := h.repo.ListOwned(cctx, scope)
	if err != nil {
		RespondFromError(ctx, err, "Could not list pets")
		return
	}

	if items == nil {
		items = []pet.Pet{}
	}

	ctx.JSON(http.StatusOK, items)
}

func (h *AdminPetsHandler) GetPet(ctx *gin.Context) {
	scope, ok := scopeFrom(ctx)
	if !ok {
		return
	}

	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	p, err := h.repo.GetByID(cctx, id, scope)
	if err != nil {
		RespondFromError(ctx, err, "Could not fetch pet")
		return
	}

	ctx.JSON(http.StatusOK, p)
}

func (h *AdminPetsHandler) CreatePet(ctx *gin.Context) {
	scope, ok := scopeFrom(ctx)
	if !ok {
		return
	}

	var req pet.CreatePetRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// listings created here always belong to the caller
	req.UserID = &scope.UserID

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

func (h *AdminPetsHandler) UpdatePet(ctx *gin.Context) {
	scope, ok := scopeFrom(ctx)
	if !ok {
		return
	}

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

	p, err := h.repo.Update(cctx, id, req, scope)
	if err != nil {
		RespondFromError(ctx, err, "Could not update pet")
		return
	}

	h.lists.invalidate(ctx)
	ctx.JSON(http.StatusOK, p)
}

func (h *AdminPetsHandler) PatchPet(ctx *gin.Context) {
	scope, ok := scopeFrom(ctx)
	if !ok {
		return
	}

	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req pet.PatchPetRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if len(req.Assignments()) == 0 {
		RespondFromError(ctx, pet.ErrEmptyPatch, "Could not update pet")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	p, err := h.repo.Patch(cctx, id, req, scope)
	if err != nil {
		RespondFromError(ctx, err, "Could not update pet")
		return
	}

	h.lists.invalidate(ctx)
	ctx.JSON(http.StatusOK, p)
}

func (h *AdminPetsHandler) DeletePet(ctx *gin.Context) {
	scope, ok := scopeFrom(ctx)
	if !ok {
		return
	}

	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.Delete(cctx, id, scope); err != nil {
		RespondFromError(ctx, err, "Could not delete pet")
		return
	}

	h.lists.invalidate(ctx)
	ctx.JSON(http.StatusOK, gin.H{"message": "Pet deleted successfully"})
}
