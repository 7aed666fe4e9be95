package handlers

import (
	"log/slog"
	"net/http"

	"github.com/geocoder89/petmarket/internal/actorctx"
	"github.com/geocoder89/petmarket/internal/apperr"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   any         `json:"details,omitempty"`
}

// requestIDFrom reads the id RequestID put on the request context; routes
// tested without that middleware fall back to the incoming header.
func requestIDFrom(ctx *gin.Context) string {
	if id, ok := actorctx.RequestIDFrom(ctx.Request.Context()); ok {
		return id
	}
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details any) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details any) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

func RespondConflict(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusConflict, code, message, nil)
}

// RespondFromError answers with the status the error kind maps to. Errors
// without a kind are logged and hidden behind fallback.
func RespondFromError(ctx *gin.Context, err error, fallback string) {
	status := apperr.HTTPStatus(err)

	if status == http.StatusInternalServerError {
		slog.Default().ErrorContext(ctx.Request.Context(), "request failed",
			"route", ctx.FullPath(),
			"err", err,
		)
		RespondInternal(ctx, fallback)
		return
	}

	message := apperr.Message(err)
	if message == "" {
		message = http.StatusText(status)
	}

	RespondError(ctx, status, apperr.Code(err), message, nil)
}
