package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/petmarket/internal/auth"
	"github.com/geocoder89/petmarket/internal/domain/category"
	"github.com/geocoder89/petmarket/internal/domain/pet"
	"github.com/geocoder89/petmarket/internal/domain/user"
	"github.com/geocoder89/petmarket/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test
func init() {
	gin.SetMode(gin.TestMode)
}

func ptr[T any](v T) *T { return &v }

type fakePetsRepo struct {
	listFn      func(ctx context.Context, f pet.ListFilter) ([]pet.Pet, int, error)
	listOwnedFn func(ctx context.Context, scope pet.Scope) ([]pet.Pet, error)
	getFn       func(ctx context.Context, id int64, scope pet.Scope) (pet.Pet, error)
	createFn    func(ctx context.Context, req pet.CreatePetRequest) (pet.Pet, error)
	updateFn    func(ctx context.Context, id int64, req pet.UpdatePetRequest, scope pet.Scope) (pet.Pet, error)
	patchFn     func(ctx context.Context, id int64, req pet.PatchPetRequest, scope pet.Scope) (pet.Pet, error)
	deleteFn    func(ctx context.Context, id int64, scope pet.Scope) error
}

func (f *fakePetsRepo) List(ctx context.Context, filter pet.ListFilter) ([]pet.Pet, int, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakePetsRepo) ListOwned(ctx context.Context, scope pet.Scope) ([]pet.Pet, error) {
	if f.listOwnedFn != nil {
		return f.listOwnedFn(ctx, scope)
	}
	return nil, nil
}

func (f *fakePetsRepo) GetByID(ctx context.Context, id int64, scope pet.Scope) (pet.Pet, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id, scope)
	}
	return pet.Pet{}, pet.ErrNotFound
}

func (f *fakePetsRepo) Create(ctx context.Context, req pet.CreatePetRequest) (pet.Pet, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return pet.Pet{}, nil
}

func (f *fakePetsRepo) Update(ctx context.Context, id int64, req pet.UpdatePetRequest, scope pet.Scope) (pet.Pet, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req, scope)
	}
	return pet.Pet{}, nil
}

func (f *fakePetsRepo) Patch(ctx context.Context, id int64, req pet.PatchPetRequest, scope pet.Scope) (pet.Pet, error) {
	if f.patchFn != nil {
		return f.patchFn(ctx, id, req, scope)
	}
	return pet.Pet{}, nil
}

func (f *fakePetsRepo) Delete(ctx context.Context, id int64, scope pet.Scope) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id, scope)
	}
	return nil
}

type fakeUserStore struct {
	createFn     func(ctx context.Context, name, email, hash string) (user.User, error)
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
	getByIDFn    func(ctx context.Context, id int64) (user.User, error)
}

func (f *fakeUserStore) Create(ctx context.Context, name, email, hash string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, name, email, hash)
	}
	return user.User{}, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return user.User{}, user.ErrNotFound
}

type fakeCategoriesRepo struct {
	listFn   func(ctx context.Context) ([]category.Category, error)
	getFn    func(ctx context.Context, id int64) (category.Category, error)
	createFn func(ctx context.Context, req category.CreateCategoryRequest) (category.Category, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (f *fakeCategoriesRepo) List(ctx context.Context) ([]category.Category, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeCategoriesRepo) GetByID(ctx context.Context, id int64) (category.Category, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return category.Category{}, category.ErrNotFound
}

func (f *fakeCategoriesRepo) Create(ctx context.Context, req category.CreateCategoryRequest) (category.Category, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return category.Category{ID: 1, Name: req.Name}, nil
}

func (f *fakeCategoriesRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

// fakeVerifier accepts "user-<n>" and "admin-<n>" style tokens via the map.
type fakeVerifier map[string]*auth.Claims

func (f fakeVerifier) VerifyAccessToken(token string) (*auth.Claims, error) {
	c, ok := f[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return c, nil
}

var testTokens = fakeVerifier{
	"user-7":  {UserID: 7},
	"user-8":  {UserID: 8},
	"admin-1": {UserID: 1, IsAdmin: true},
}

// small helper function which returns the gin engine to mount one handler per test
func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func setupAuthedRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	m := middlewares.NewAuthMiddleware(testTokens)

	r := gin.New()
	r.Handle(method, path, m.RequireAuth(), h)

	return r
}

func doRequest(r http.Handler, method, url, body, token string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, url, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()

	var e errorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("failed to unmarshal error body: %v body=%s", err, w.Body.String())
	}
	return e
}
