package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT        NOT NULL,
		email         TEXT        NOT NULL UNIQUE,
		password_hash TEXT        NOT NULL,
		is_admin      BOOLEAN     NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pets (
		id               BIGSERIAL PRIMARY KEY,
		user_id          BIGINT REFERENCES users(id) ON DELETE SET NULL,
		category_id      BIGINT REFERENCES categories(id) ON DELETE SET NULL,
		name             TEXT           NOT NULL,
		price            NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
		description      TEXT           NOT NULL DEFAULT '',
		region           TEXT           NOT NULL DEFAULT '',
		email            TEXT           NOT NULL DEFAULT '',
		phone            TEXT           NOT NULL DEFAULT '',
		additional_phone TEXT           NOT NULL DEFAULT '',
		telegram         TEXT           NOT NULL DEFAULT '',
		images           TEXT[]         NOT NULL DEFAULT '{}',
		created_at       TIMESTAMPTZ    NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ    NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS pets_price_id_idx ON pets (price, id)`,
	`CREATE INDEX IF NOT EXISTS pets_category_id_idx ON pets (category_id)`,
	`CREATE INDEX IF NOT EXISTS pets_user_id_idx ON pets (user_id)`,
}

// EnsureSchema creates the tables and indexes if they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
