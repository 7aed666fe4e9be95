package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/petmarket/internal/config"
	"github.com/geocoder89/petmarket/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
}

// ResolveRole must run after RequireAuth. It swaps the admin flag carried by
// the token for the one stored on the account, so a demotion takes effect
// before the token expires.
func (m *AuthMiddleware) ResolveRole(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := UserIDFromContext(c)
		if !ok {
			abortUnauthorized(c, "Missing identity context")
			return
		}

		cctx, cancel := config.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		u, err := users.GetByID(cctx, id)
		if errors.Is(err, user.ErrNotFound) {
			abortUnauthorized(c, "Account no longer exists")
			return
		}
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "resolve role failed", "err", err)
			abortJSON(c, http.StatusInternalServerError, "internal_error", "Could not resolve role")
			return
		}

		c.Set(ctxAdminKey, u.IsAdmin)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth, and after ResolveRole wherever
// the stored role should win over the token.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserIDFromContext(c); !ok {
			abortUnauthorized(c, "Missing identity context")
			return
		}

		if !IsAdminFromContext(c) {
			abortJSON(c, http.StatusForbidden, "forbidden", "Admin access required")
			return
		}
		c.Next()
	}
}
