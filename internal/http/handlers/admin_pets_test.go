package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/geocoder89/petmarket/internal/cache"
	"github.com/geocoder89/petmarket/internal/domain/pet"
	"github.com/geocoder89/petmarket/internal/http/handlers"
	"github.com/geocoder89/petmarket/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func setupAdminRouter(h *handlers.AdminPetsHandler) *gin.Engine {
	m := middlewares.NewAuthMiddleware(testTokens)

	r := gin.New()
	g := r.Group("/admin/pets", m.RequireAuth())
	g.GET("", h.ListPets)
	g.POST("", h.CreatePet)
	g.GET("/:id", h.GetPet)
	g.PUT("/:id", h.UpdatePet)
	g.PATCH("/:id", h.PatchPet)
	g.DELETE("/:id", h.DeletePet)

	return r
}

func TestAdminPets_RequiresToken(t *testing.T) {
	r := setupAdminRouter(handlers.NewAdminPetsHandler(&fakePetsRepo{}, nil))

	routes := []struct{ method, url, body string }{
		{http.MethodGet, "/admin/pets", ""},
		{http.MethodPost, "/admin/pets", `{"name":"x","price":1}`},
		{http.MethodGet, "/admin/pets/1", ""},
		{http.MethodPut, "/admin/pets/1", `{"name":"x","price":1}`},
		{http.MethodPatch, "/admin/pets/1", `{"name":"x"}`},
		{http.MethodDelete, "/admin/pets/1", ""},
	}

	for _, rt := range routes {
		if w := doRequest(r, rt.method, rt.url, rt.body, ""); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without token got %d, want 401", rt.method, rt.url, w.Code)
		}
	}
}

func TestAdminPets_ListIsScopedToCaller(t *testing.T) {
	var gotScope pet.Scope
	repo := &fakePetsRepo{
		listOwnedFn: func(ctx context.Context, scope pet.Scope) ([]pet.Pet, error) {
			gotScope = scope
			return nil, nil
		},
	}

	r := setupAdminRouter(handlers.NewAdminPetsHandler(repo, nil))

	w := doRequest(r, http.MethodGet, "/admin/pets", "", "user-7")
	if w.Code != http.StatusOK {
		t.Fatalf("got %d body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != "[]" {
		t.Fatalf("empty list should render as [], got %s", w.Body.String())
	}
	if gotScope != (pet.Scope{UserID: 7}) {
		t.Fatalf("scope = %+v, want owner 7 only", gotScope)
	}

	doRequest(r, http.MethodGet, "/admin/pets", "", "admin-1")
	if gotScope != (pet.Scope{UserID: 1, All: true}) {
		t.Fatalf("admin scope = %+v, want all listings", gotScope)
	}
}

func TestAdminPets_CreateForcesOwner(t *testing.T) {
	repo := &fakePetsRepo{
		createFn: func(ctx context.Context, req pet.CreatePetRequest) (pet.Pet, error) {
			if req.UserID == nil || *req.UserID != 7 {
				return pet.Pet{}, errors.New("owner not forced to caller")
			}
			p := samplePet(11)
			p.UserID = req.UserID
			return p, nil
		},
	}

	r := setupAdminRouter(handlers.NewAdminPetsHandler(repo, nil))

	w := doRequest(r, http.MethodPost, "/admin/pets", `{"name":"Rex","price":10,"user_id":99}`, "user-7")
	if w.Code != http.StatusCreated {
		t.Fatalf("got %d body=%s", w.Code, w.Body.String())
	}
}

func TestAdminPets_GetNotOwned(t *testing.T) {
	repo := &fakePetsRepo{
		getFn: func(ctx context.Context, id int64, scope pet.Scope) (pet.Pet, error) {
			if scope.All || scope.UserID == 7 {
				return samplePet(id), nil
			}
			return pet.Pet{}, pet.ErrNotFound
		},
	}

	r := setupAdminRouter(handlers.NewAdminPetsHandler(repo, nil))

	if w := doRequest(r, http.MethodGet, "/admin/pets/3", "", "user-8"); w.Code != http.StatusNotFound {
		t.Fatalf("foreign listing got %d, want 404", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/admin/pets/3", "", "user-7"); w.Code != http.StatusOK {
		t.Fatalf("own listing got %d, want 200", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/admin/pets/abc", "", "user-7"); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id got %d, want 400", w.Code)
	}
}

func TestAdminPets_Patch(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		body           string
		repoSetup      func(*fakePetsRepo)
		wantStatusCode int
	}{
		{
			name: "only_supplied_fields",
			url:  "/admin/pets/5",
			body: `{"price":60}`,
			repoSetup: func(f *fakePetsRepo) {
				f.patchFn = func(ctx context.Context, id int64, req pet.PatchPetRequest, scope pet.Scope) (pet.Pet, error) {
					if req.Name != nil || req.Price == nil || *req.Price != 60 {
						return pet.Pet{}, errors.New("patch payload not passed as-is")
					}
					p := samplePet(id)
					p.Price = *req.Price
					return p, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "empty_patch",
			url:            "/admin/pets/5",
			body:           `{}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "invalid_field",
			url:            "/admin/pets/5",
			body:           `{"price":-1}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "price_over_range",
			url:            "/admin/pets/5",
			body:           `{"price":1e12}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "not_found",
			url:  "/admin/pets/5",
			body: `{"name":"Ghost"}`,
			repoSetup: func(f *fakePetsRepo) {
				f.patchFn = func(ctx context.Context, id int64, req pet.PatchPetRequest, scope pet.Scope) (pet.Pet, error) {
					return pet.Pet{}, pet.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakePetsRepo{}
			if tt.repoSetup != nil {
				tt.repoSetup(repo)
			}

			r := setupAdminRouter(handlers.NewAdminPetsHandler(repo, nil))

			w := doRequest(r, http.MethodPatch, tt.url, tt.body, "user-7")
			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestAdminPets_UpdateAndDeleteInvalidateListCache(t *testing.T) {
	store := cache.New(time.Minute)
	store.Set(context.Background(), "pets:list:v1:any", []byte(`{}`))

	repo := &fakePetsRepo{
		updateFn: func(ctx context.Context, id int64, req pet.UpdatePetRequest, scope pet.Scope) (pet.Pet, error) {
			return samplePet(id), nil
		},
	}

	r := setupAdminRouter(handlers.NewAdminPetsHandler(repo, handlers.NewListCache(store, nil)))

	if w := doRequest(r, http.MethodPut, "/admin/pets/5", `{"name":"Fluffy","price":55}`, "user-7"); w.Code != http.StatusOK {
		t.Fatalf("update got %d body=%s", w.Code, w.Body.String())
	}
	if store.Len() != 0 {
		t.Fatalf("update should clear cached pages, %d left", store.Len())
	}

	store.Set(context.Background(), "pets:list:v1:any", []byte(`{}`))

	w := doRequest(r, http.MethodDelete, "/admin/pets/5", "", "user-7")
	if w.Code != http.StatusOK {
		t.Fatalf("delete got %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Message != "Pet deleted successfully" {
		t.Fatalf("unexpected delete body %s", w.Body.String())
	}
	if store.Len() != 0 {
		t.Fatalf("delete should clear cached pages, %d left", store.Len())
	}
}
