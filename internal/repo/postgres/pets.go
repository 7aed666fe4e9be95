package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/petmarket/internal/domain/pet"
	"github.com/geocoder89/petmarket/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

type PetsRepo struct {
	observer
	pool *pgxpool.Pool
}

func NewPetsRepo(pool *pgxpool.Pool, prom *observability.Prom) *PetsRepo {
	return &PetsRepo{observer: observer{prom: prom}, pool: pool}
}

// petColumns reads a pets row (or a CTE aliased as pets) with the joined
// display names.
const petColumns = `
	pets.id,
	pets.user_id,
	pets.category_id,
	pets.name,
	pets.price,
	pets.description,
	pets.region,
	pets.email,
	pets.phone,
	pets.additional_phone,
	pets.telegram,
	pets.images,
	categories.name,
	users.name,
	pets.created_at,
	pets.updated_at`

const petJoins = `
	LEFT JOIN categories ON pets.category_id = categories.id
	LEFT JOIN users ON pets.user_id = users.id`

// withChanged wraps a data-modifying statement that RETURNS * so the
// response carries the same joined fields as a read.
func withChanged(stmt string) string {
	return `WITH changed AS (` + stmt + `)
	SELECT ` + petColumns + `
	FROM changed AS pets` + petJoins
}

func scanPet(row pgx.Row) (pet.Pet, error) {
	var p pet.Pet
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.CategoryID,
		&p.Name,
		&p.Price,
		&p.Description,
		&p.Region,
		&p.Email,
		&p.Phone,
		&p.AdditionalPhone,
		&p.Telegram,
		&p.Images,
		&p.CategoryName,
		&p.UserName,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func collectPets(rows pgx.Rows) ([]pet.Pet, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (pet.Pet, error) {
		return scanPet(row)
	})
}

// List runs the page query and the count query concurrently over the same
// WHERE clause. Either failing fails the whole call.
func (r *PetsRepo) List(ctx context.Context, f pet.ListFilter) ([]pet.Pet, int, error) {
	where, args := joinClauses(f.Predicates(), 1, " AND ")

	n := len(args)

	dataQuery := `SELECT ` + petColumns + ` FROM pets` + petJoins +
		` WHERE ` + where +
		fmt.Sprintf(` ORDER BY pets.price ASC, pets.id ASC LIMIT $%d OFFSET $%d`, n+1, n+2)

	countQuery := `SELECT COUNT(*) FROM pets WHERE ` + where

	dataArgs := make([]any, 0, n+2)
	dataArgs = append(dataArgs, args...)
	dataArgs = append(dataArgs, f.Limit, f.Offset())

	var (
		items []pet.Pet
		total int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.observe(gctx, "pets.list", func(ctx context.Context) error {
			rows, err := r.pool.Query(ctx, dataQuery, dataArgs...)
			if err != nil {
				return err
			}
			items, err = collectPets(rows)
			return err
		})
	})

	g.Go(func() error {
		return r.observe(gctx, "pets.count", func(ctx context.Context) error {
			return r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
		})
	})

	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("list pets: %w", err)
	}

	if items == nil {
		items = []pet.Pet{}
	}

	return items, total, nil
}

// ListOwned returns the caller's listings, newest first.
func (r *PetsRepo) ListOwned(ctx context.Context, scope pet.Scope) ([]pet.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets` + petJoins
	var args []any

	if !scope.All {
		query += ` WHERE pets.user_id = $1`
		args = append(args, scope.UserID)
	}

	query += ` ORDER BY pets.created_at DESC, pets.id DESC`

	var items []pet.Pet

	err := r.observe(ctx, "pets.list_owned", func(ctx context.Context) error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		items, err = collectPets(rows)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("list owned pets: %w", err)
	}

	if items == nil {
		items = []pet.Pet{}
	}
	return items, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64, scope pet.Scope) (pet.Pet, error) {
	where, args := joinClauses(scope.Predicates(id), 1, " AND ")

	return r.one(ctx, "pets.get",
		`SELECT `+petColumns+` FROM pets`+petJoins+` WHERE `+where,
		args...,
	)
}

func (r *PetsRepo) Create(ctx context.Context, req pet.CreatePetRequest) (pet.Pet, error) {
	return r.one(ctx, "pets.create",
		withChanged(`INSERT INTO pets (
			user_id, category_id, name, price, description, region,
			email, phone, additional_phone, telegram, images
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING *`),
		req.UserID,
		req.CategoryID,
		req.Name,
		*req.Price,
		req.Description,
		req.Region,
		req.Email,
		req.Phone,
		req.AdditionalPhone,
		req.Telegram,
		req.ImagesOrEmpty(),
	)
}

// Update replaces every editable field and refreshes updated_at.
func (r *PetsRepo) Update(ctx context.Context, id int64, req pet.UpdatePetRequest, scope pet.Scope) (pet.Pet, error) {
	const fields = 10

	where, whereArgs := joinClauses(scope.Predicates(id), fields+1, " AND ")

	args := []any{
		req.CategoryID,
		req.Name,
		*req.Price,
		req.Description,
		req.Region,
		req.Email,
		req.Phone,
		req.AdditionalPhone,
		req.Telegram,
		req.ImagesOrEmpty(),
	}
	args = append(args, whereArgs...)

	return r.one(ctx, "pets.update",
		withChanged(`UPDATE pets
			SET category_id = $1,
				name = $2,
				price = $3,
				description = $4,
				region = $5,
				email = $6,
				phone = $7,
				additional_phone = $8,
				telegram = $9,
				images = $10,
				updated_at = NOW()
			WHERE `+where+`
			RETURNING *`),
		args...,
	)
}

// Patch changes only the supplied fields and refreshes updated_at.
func (r *PetsRepo) Patch(ctx context.Context, id int64, req pet.PatchPetRequest, scope pet.Scope) (pet.Pet, error) {
	assignments := req.Assignments()
	if len(assignments) == 0 {
		return pet.Pet{}, pet.ErrEmptyPatch
	}

	set, args := joinClauses(assignments, 1, ", ")
	where, whereArgs := joinClauses(scope.Predicates(id), len(args)+1, " AND ")
	args = append(args, whereArgs...)

	return r.one(ctx, "pets.patch",
		withChanged(`UPDATE pets SET `+set+`, updated_at = NOW() WHERE `+where+` RETURNING *`),
		args...,
	)
}

func (r *PetsRepo) Delete(ctx context.Context, id int64, scope pet.Scope) error {
	where, args := joinClauses(scope.Predicates(id), 1, " AND ")

	var affected int64

	err := r.observe(ctx, "pets.delete", func(ctx context.Context) error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM pets WHERE `+where, args...)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		return fmt.Errorf("delete pet: %w", err)
	}

	// if no rows were deleted as a result return a not found error
	if affected == 0 {
		return pet.ErrNotFound
	}

	return nil
}

func (r *PetsRepo) one(ctx context.Context, op, query string, args ...any) (pet.Pet, error) {
	var p pet.Pet

	err := r.observe(ctx, op, func(ctx context.Context) error {
		var e error
		p, e = scanPet(r.pool.QueryRow(ctx, query, args...))
		return e
	})

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return pet.Pet{}, pet.ErrNotFound
		case pgCode(err) == codeForeignKeyViolation:
			return pet.Pet{}, pet.ErrInvalidReference
		}
		return pet.Pet{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}
