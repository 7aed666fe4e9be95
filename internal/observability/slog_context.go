package observability

import (
	"context"
	"log/slog"

	"github.com/geocoder89/petmarket/internal/actorctx"
	"go.opentelemetry.io/otel/trace"
)

// ContextHandler adds request-scoped attributes to records logged with a
// context: request_id, user_id once authenticated, and the active span ids.
type ContextHandler struct {
	next slog.Handler
}

func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		r.AddAttrs(contextAttrs(ctx)...)
	}
	return h.next.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}

func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr

	if id, ok := actorctx.RequestIDFrom(ctx); ok {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if id, ok := actorctx.UserIDFrom(ctx); ok {
		attrs = append(attrs, slog.Int64("user_id", id))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	return attrs
}
