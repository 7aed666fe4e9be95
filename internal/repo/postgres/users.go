package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/petmarket/internal/domain/user"
	"github.com/geocoder89/petmarket/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	observer
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{observer: observer{prom: prom}, pool: pool}
}

const userColumns = `id, name, email, password_hash, is_admin, created_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	return u, err
}

func (r *UsersRepo) Create(ctx context.Context, name, email, passwordHash string) (user.User, error) {
	var u user.User

	err := r.observe(ctx, "users.create", func(ctx context.Context) error {
		var e error
		u, e = scanUser(r.pool.QueryRow(ctx,
			`INSERT INTO users (name, email, password_hash, is_admin)
			VALUES ($1, $2, $3, FALSE)
			RETURNING `+userColumns,
			name, email, passwordHash,
		))
		return e
	})

	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	return r.getOne(ctx, "users.get_by_id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UsersRepo) getOne(ctx context.Context, op, query string, arg any) (user.User, error) {
	var u user.User

	err := r.observe(ctx, op, func(ctx context.Context) error {
		var e error
		u, e = scanUser(r.pool.QueryRow(ctx, query, arg))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
