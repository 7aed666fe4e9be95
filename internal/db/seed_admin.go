package db

import (
	"context"
	"errors"
	"strings"

	"github.com/geocoder89/petmarket/internal/config"
	"github.com/geocoder89/petmarket/internal/security"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureAdminUser creates the bootstrap admin from config once. An existing
// account with that email is promoted instead of recreated.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))

	var id int64

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&id)

	if err == nil {
		_, err = pool.Exec(ctx, `UPDATE users SET is_admin = TRUE WHERE id = $1`, id)
		return err
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (name, email, password_hash, is_admin)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (email) DO NOTHING`,
		cfg.AdminName, email, hash,
	)

	return err
}
