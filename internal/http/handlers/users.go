package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/petmarket/internal/config"
	"github.com/geocoder89/petmarket/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
}

type UsersHandler struct {
	users UserReader
}

func NewUsersHandler(users UserReader) *UsersHandler {
	return &UsersHandler{users: users}
}

// GetUserByID exposes only the public profile.
func (h *UsersHandler) GetUserByID(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, id)
	if err != nil {
		RespondFromError(ctx, err, "Could not fetch user")
		return
	}

	ctx.JSON(http.StatusOK, u.Profile())
}
