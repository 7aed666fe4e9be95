package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/petmarket/internal/config"
	"github.com/geocoder89/petmarket/internal/domain/user"
	"github.com/geocoder89/petmarket/internal/http/middlewares"
	"github.com/geocoder89/petmarket/internal/observability"
	"github.com/geocoder89/petmarket/internal/security"
	"github.com/gin-gonic/gin"
)

type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID int64, isAdmin bool) (string, error)
}

const invalidCredentials = "Invalid email or password"

type AuthHandler struct {
	users  UserStore
	tokens TokenIssuer
	prom   *observability.Prom
}

func NewAuthHandler(users UserStore, tokens TokenIssuer, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, prom: prom}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req user.SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		RespondFromError(ctx, err, "Could not create user")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.users.Create(cctx, strings.TrimSpace(req.Name), normalizeEmail(req.Email), hash)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			h.prom.AuthResult("signup", "conflict")
			RespondConflict(ctx, "email_taken", "Email is already in use")
			return
		}

		h.prom.AuthResult("signup", "error")
		RespondFromError(ctx, err, "Could not create user")
		return
	}

	h.prom.AuthResult("signup", "ok")
	ctx.JSON(http.StatusCreated, u)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	found, err := h.users.GetByEmail(cctx, normalizeEmail(req.Email))
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		h.prom.AuthResult("login", "error")
		RespondFromError(ctx, err, "Could not log in")
		return
	}

	// an unknown email leaves found zero-valued and fails against the decoy
	if !security.PasswordMatches(found.PasswordHash, req.Password) {
		h.prom.AuthResult("login", "invalid")
		RespondUnAuthorized(ctx, "invalid_credentials", invalidCredentials)
		return
	}

	token, err := h.tokens.GenerateAccessToken(found.ID, found.IsAdmin)
	if err != nil {
		h.prom.AuthResult("login", "error")
		RespondFromError(ctx, err, "Could not generate access token")
		return
	}

	h.prom.AuthResult("login", "ok")
	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"token":    token,
		"is_admin": found.IsAdmin,
	})
}

// Role reads the admin flag from the store, not the token, so promotions
// show up before the token is reissued.
func (h *AuthHandler) Role(ctx *gin.Context) {
	id, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, id)
	if err != nil {
		RespondFromError(ctx, err, "Could not fetch role")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"is_admin": u.IsAdmin})
}
