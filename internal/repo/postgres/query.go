package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/petmarket/internal/domain/pet"
	"github.com/geocoder89/petmarket/internal/observability"
	"github.com/jackc/pgx/v5/pgconn"
)

// joinClauses numbers the placeholders of each clause starting at start and
// joins them with sep. The returned args line up with the placeholders.
func joinClauses(clauses []pet.Clause, start int, sep string) (string, []any) {
	parts := make([]string, 0, len(clauses))
	args := make([]any, 0, len(clauses))

	for i, c := range clauses {
		parts = append(parts, fmt.Sprintf(c.Template, start+i))
		args = append(args, c.Value)
	}

	return strings.Join(parts, sep), args
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type observer struct {
	prom *observability.Prom
}

// observe runs one repository statement under a span, plus metrics when
// prom is set.
func (o observer) observe(ctx context.Context, op string, fn func(context.Context) error) error {
	return o.prom.ObserveDB(ctx, op, fn)
}
