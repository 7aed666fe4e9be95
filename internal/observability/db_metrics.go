package observability

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var dbTracer = otel.Tracer("github.com/geocoder89/petmarket/internal/repo/postgres")

// ObserveDB runs fn inside a client span named after op and records its
// latency. A nil *Prom still traces. A missing row is an outcome, not a
// failure, so it is not counted as an error.
func (p *Prom) ObserveDB(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := dbTracer.Start(ctx, "db "+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", op),
		),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	status := "ok"
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		status = "error"
		kind := classifyDBErr(err)

		span.RecordError(err)
		span.SetStatus(codes.Error, kind)

		if p != nil {
			p.DbErrorsTotal.WithLabelValues(op, kind).Inc()
		}
	}

	if p != nil {
		p.DbQueryDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	}
	return err
}

func classifyDBErr(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return "unique_violation"
		case "23503":
			// pets.category_id / pets.user_id pointing nowhere
			return "foreign_key_violation"
		case "23514":
			// price < 0 slipped past binding
			return "check_violation"
		case "57014":
			return "query_canceled"
		default:
			return "pg_" + pgErr.Code
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return "timeout"
	case strings.Contains(msg, "connection") || strings.Contains(msg, "dial"):
		return "connection"
	default:
		return "unknown"
	}
}
