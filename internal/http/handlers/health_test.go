package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/geocoder89/petmarket/internal/http/handlers"
)

func TestHealthHandler(t *testing.T) {
	ok := handlers.Check{Name: "db", Ping: func(ctx context.Context) error { return nil }}
	down := handlers.Check{Name: "cache", Ping: func(ctx context.Context) error { return errors.New("dial tcp: refused") }}

	tests := []struct {
		name       string
		checks     []handlers.Check
		path       string
		wantStatus int
	}{
		{"liveness_ignores_checks", []handlers.Check{down}, "/healthz", http.StatusOK},
		{"ready", []handlers.Check{ok}, "/readyz", http.StatusOK},
		{"not_ready", []handlers.Check{ok, down}, "/readyz", http.StatusServiceUnavailable},
		{"not_ready_hides_errors", []handlers.Check{down}, "/readyz", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewHealthHandler(tt.checks...)
			r := setupRouter(http.MethodGet, "/healthz", h.Healthz)
			r.GET("/readyz", h.Readyz)

			w := doRequest(r, http.MethodGet, tt.path, "", "")
			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantStatus == http.StatusServiceUnavailable {
				body := w.Body.String()
				if !strings.Contains(body, `"cache":"down"`) || strings.Contains(body, "dial tcp") {
					t.Fatalf("readiness body should name the failed check only, got %s", body)
				}
			}
		})
	}
}
