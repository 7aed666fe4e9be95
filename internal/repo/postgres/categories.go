package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/petmarket/internal/domain/category"
	"github.com/geocoder89/petmarket/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoriesRepo struct {
	observer
	pool *pgxpool.Pool
}

func NewCategoriesRepo(pool *pgxpool.Pool, prom *observability.Prom) *CategoriesRepo {
	return &CategoriesRepo{observer: observer{prom: prom}, pool: pool}
}

func (r *CategoriesRepo) List(ctx context.Context) ([]category.Category, error) {
	out := make([]category.Category, 0)

	err := r.observe(ctx, "categories.list", func(ctx context.Context) error {
		rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY id ASC`)
		if err != nil {
			return err
		}

		items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[category.Category])
		if err != nil {
			return err
		}
		out = append(out, items...)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (r *CategoriesRepo) GetByID(ctx context.Context, id int64) (category.Category, error) {
	var c category.Category

	err := r.observe(ctx, "categories.get", func(ctx context.Context) error {
		return r.pool.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return category.Category{}, category.ErrNotFound
		}
		return category.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *CategoriesRepo) Create(ctx context.Context, req category.CreateCategoryRequest) (category.Category, error) {
	var c category.Category

	err := r.observe(ctx, "categories.create", func(ctx context.Context) error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO categories (name) VALUES ($1) RETURNING id, name`,
			req.Name,
		).Scan(&c.ID, &c.Name)
	})

	if err != nil {
		return category.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (r *CategoriesRepo) Delete(ctx context.Context, id int64) error {
	var affected int64

	err := r.observe(ctx, "categories.delete", func(ctx context.Context) error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if affected == 0 {
		return category.ErrNotFound
	}
	return nil
}
