package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"smart-pantry/internal/domain/pantry"
)

type PantryRepo struct {
	db *sql.DB
}

func NewPantryRepo(db *sql.DB) *PantryRepo {
	return &PantryRepo{db: db}
}

const itemColumns = `id, name, quantity, category, expires_at, created_at, updated_at`

func (r *PantryRepo) Create(ctx context.Context, it pantry.Item) (pantry.Item, error) {
	it.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pantry_items (
			id, name, quantity, category,
			expires_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		it.ID,
		it.Name,
		it.Quantity,
		it.Category,
		toNullDate(it.ExpiresAt),
		it.CreatedAt,
		it.UpdatedAt,
	)
	if err != nil {
		return pantry.Item{}, err
	}
	return it, nil
}

func (r *PantryRepo) GetByID(ctx context.Context, id string) (pantry.Item, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM pantry_items
		WHERE id = $1
	`, id)

	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return pantry.Item{}, pantry.ErrNotFound
	}
	return it, err
}

func (r *PantryRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM pantry_items WHERE id = $1)
	`, id).Scan(&exists)
	return exists, err
}

func (r *PantryRepo) Update(ctx context.Context, it pantry.Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pantry_items
		SET
			name = $2,
			quantity = $3,
			category = $4,
			expires_at = $5,
			updated_at = $6
		WHERE id = $1
	`,
		it.ID,
		it.Name,
		it.Quantity,
		it.Category,
		toNullDate(it.ExpiresAt),
		it.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pantry.ErrNotFound
	}
	return nil
}

func (r *PantryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM pantry_items WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pantry.ErrNotFound
	}
	return nil
}

func (r *PantryRepo) ListAll(ctx context.Context) ([]pantry.Item, error) {
	return r.queryItems(ctx, `
		SELECT `+itemColumns+`
		FROM pantry_items
		ORDER BY created_at ASC
	`)
}

func (r *PantryRepo) FindByExpirationBetween(ctx context.Context, start, end time.Time) ([]pantry.Item, error) {
	// expires_at IS NULL queda fuera del BETWEEN solo; el filtro
	// explícito documenta la intención.
	return r.queryItems(ctx, `
		SELECT `+itemColumns+`
		FROM pantry_items
		WHERE expires_at IS NOT NULL
		  AND expires_at BETWEEN $1 AND $2
		ORDER BY expires_at ASC
	`, start, end)
}

func (r *PantryRepo) FindByQuantityAtMost(ctx context.Context, threshold int) ([]pantry.Item, error) {
	return r.queryItems(ctx, `
		SELECT `+itemColumns+`
		FROM pantry_items
		WHERE quantity <= $1
		ORDER BY quantity ASC
	`, threshold)
}

// AdjustQuantity es un único UPDATE con guard: atómico del lado del
// server, sin leer-modificar-escribir en el service.
func (r *PantryRepo) AdjustQuantity(ctx context.Context, id string, delta int) (pantry.Item, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE pantry_items
		SET quantity = quantity + $2, updated_at = $3
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING `+itemColumns+`
	`, id, delta, time.Now())

	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		// distinguir miss de underflow
		exists, exErr := r.Exists(ctx, id)
		if exErr != nil {
			return pantry.Item{}, exErr
		}
		if !exists {
			return pantry.Item{}, pantry.ErrNotFound
		}
		return pantry.Item{}, pantry.ErrQuantityUnderflow
	}
	return it, err
}

func (r *PantryRepo) queryItems(ctx context.Context, query string, args ...any) ([]pantry.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pantry.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (pantry.Item, error) {
	var it pantry.Item
	var exp sql.NullTime
	if err := row.Scan(
		&it.ID,
		&it.Name,
		&it.Quantity,
		&it.Category,
		&exp,
		&it.CreatedAt,
		&it.UpdatedAt,
	); err != nil {
		return pantry.Item{}, err
	}

	if exp.Valid {
		// expires_at es DATE; pgx lo mapea a time.Time medianoche UTC
		t := exp.Time
		it.ExpiresAt = &t
	}

	return it, nil
}

func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
