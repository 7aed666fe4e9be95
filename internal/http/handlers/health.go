package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check is one readiness dependency.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthHandler struct {
	checks  []Check
	timeout time.Duration
}

func NewHealthHandler(checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: time.Second}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	failed := gin.H{}

	for _, c := range h.checks {
		cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
		err := c.Ping(cctx)
		cancel()

		if err != nil {
			// the error can carry hosts and ports, keep it in the logs
			slog.WarnContext(ctx.Request.Context(), "readiness check failed", "check", c.Name, "err", err)
			failed[c.Name] = "down"
		}
	}

	if len(failed) > 0 {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "checks": failed})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
