package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/geocoder89/petmarket/internal/actorctx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestClassifyDBErr(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&pgconn.PgError{Code: "23505"}, "unique_violation"},
		{&pgconn.PgError{Code: "23503"}, "foreign_key_violation"},
		{&pgconn.PgError{Code: "42P01"}, "pg_42P01"},
		{fmt.Errorf("pets.list: %w", context.DeadlineExceeded), "timeout"},
		{errors.New("read tcp: i/o timeout"), "timeout"},
		{errors.New("failed to connect: connection refused"), "connection"},
		{errors.New("boom"), "unknown"},
	}

	for _, tt := range tests {
		if got := classifyDBErr(tt.err); got != tt.want {
			t.Fatalf("classifyDBErr(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestObserveDB_CountsErrorsButNotMissingRows(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	ctx := context.Background()
	_ = p.ObserveDB(ctx, "pets.get", func(context.Context) error { return pgx.ErrNoRows })
	_ = p.ObserveDB(ctx, "pets.create", func(context.Context) error { return &pgconn.PgError{Code: "23503"} })

	if got := testutil.ToFloat64(p.DbErrorsTotal.WithLabelValues("pets.create", "foreign_key_violation")); got != 1 {
		t.Fatalf("foreign key errors = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(p.DbErrorsTotal); got != 1 {
		t.Fatalf("error series = %d, want 1 (no-rows must not count)", got)
	}
}

func TestObserveDB_NilPromStillRuns(t *testing.T) {
	var p *Prom
	want := errors.New("boom")

	called := false
	err := p.ObserveDB(context.Background(), "pets.list", func(ctx context.Context) error {
		called = ctx != nil
		return want
	})

	if !called {
		t.Fatal("fn was not called with a context")
	}
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "AlwaysOnSampler"},
		{2, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}

	for _, tt := range tests {
		if got := samplerFor(tt.ratio).Description(); !strings.HasPrefix(got, "ParentBased{root:"+tt.want) {
			t.Fatalf("samplerFor(%v) = %q, want root %q", tt.ratio, got, tt.want)
		}
	}
}

func TestCacheResult_NilSafe(t *testing.T) {
	var p *Prom
	p.CacheResult(true)
	p.AuthResult("login", "ok")

	p = NewProm(prometheus.NewRegistry())
	p.CacheResult(true)
	p.CacheResult(false)
	p.CacheResult(false)

	if got := testutil.ToFloat64(p.CacheLookups.WithLabelValues("miss")); got != 2 {
		t.Fatalf("misses = %v, want 2", got)
	}
}

func TestNewLogger_EmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "dev", "")

	log.DebugContext(context.Background(), "hello", "k", "v")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["msg"] != "hello" || line["k"] != "v" {
		t.Fatalf("unexpected log line: %v", line)
	}
	if _, ok := line["trace_id"]; ok {
		t.Fatal("trace_id should be absent without an active span")
	}
}

func TestContextHandler_StampsRequestScope(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "prod", "")

	ctx := actorctx.WithRequestID(actorctx.WithUserID(context.Background(), 42), "req-9")
	log.With("component", "pets").InfoContext(ctx, "pet_created")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["user_id"] != float64(42) || line["request_id"] != "req-9" {
		t.Fatalf("request scope missing: %v", line)
	}
	if line["component"] != "pets" {
		t.Fatalf("WithAttrs lost through the handler: %v", line)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		env, level string
		want       slog.Level
	}{
		{"dev", "", slog.LevelDebug},
		{"prod", "", slog.LevelInfo},
		{"prod", "warn", slog.LevelWarn},
		{"dev", "ERROR", slog.LevelError},
		{"prod", "loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.env, tt.level); got != tt.want {
			t.Fatalf("parseLevel(%q, %q) = %v, want %v", tt.env, tt.level, got, tt.want)
		}
	}
}
