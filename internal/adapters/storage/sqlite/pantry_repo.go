package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"smart-pantry/internal/domain/pantry"
)

const dateLayout = "2006-01-02"

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
		) VALUES (?,?,?,?,?,?,?)
	`,
		it.ID,
		it.Name,
		it.Quantity,
		it.Category,
		toDateString(it.ExpiresAt),
		it.CreatedAt.UTC().Format(time.RFC3339Nano),
		it.UpdatedAt.UTC().Format(time.RFC3339Nano),
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
		WHERE id = ?
	`, id)

	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return pantry.Item{}, pantry.ErrNotFound
	}
	return it, err
}

func (r *PantryRepo) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM pantry_items WHERE id = ?
	`, id).Scan(&n)
	return n > 0, err
}

func (r *PantryRepo) Update(ctx context.Context, it pantry.Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pantry_items
		SET
			name = ?,
			quantity = ?,
			category = ?,
			expires_at = ?,
			updated_at = ?
		WHERE id = ?
	`,
		it.Name,
		it.Quantity,
		it.Category,
		toDateString(it.ExpiresAt),
		it.UpdatedAt.UTC().Format(time.RFC3339Nano),
		it.ID,
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
		DELETE FROM pantry_items WHERE id = ?
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
	// Las fechas son TEXT YYYY-MM-DD: el orden lexicográfico coincide
	// con el cronológico, BETWEEN funciona directo.
	return r.queryItems(ctx, `
		SELECT `+itemColumns+`
		FROM pantry_items
		WHERE expires_at IS NOT NULL
		  AND expires_at BETWEEN ? AND ?
		ORDER BY expires_at ASC
	`, start.Format(dateLayout), end.Format(dateLayout))
}

func (r *PantryRepo) FindByQuantityAtMost(ctx context.Context, threshold int) ([]pantry.Item, error) {
	return r.queryItems(ctx, `
		SELECT `+itemColumns+`
		FROM pantry_items
		WHERE quantity <= ?
		ORDER BY quantity ASC
	`, threshold)
}

// AdjustQuantity serializa el read-modify-write dentro de una
// transacción; con una sola conexión no hay updates perdidos.
func (r *PantryRepo) AdjustQuantity(ctx context.Context, id string, delta int) (pantry.Item, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return pantry.Item{}, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM pantry_items
		WHERE id = ?
	`, id)

	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return pantry.Item{}, pantry.ErrNotFound
	}
	if err != nil {
		return pantry.Item{}, err
	}

	if it.Quantity+delta < 0 {
		return pantry.Item{}, pantry.ErrQuantityUnderflow
	}

	it.Quantity += delta
	it.UpdatedAt = time.Now()

	if _, err := tx.ExecContext(ctx, `
		UPDATE pantry_items
		SET quantity = ?, updated_at = ?
		WHERE id = ?
	`, it.Quantity, it.UpdatedAt.UTC().Format(time.RFC3339Nano), it.ID); err != nil {
		return pantry.Item{}, err
	}

	if err := tx.Commit(); err != nil {
		return pantry.Item{}, err
	}
	return it, nil
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
	var exp sql.NullString
	var created, updated string

	if err := row.Scan(
		&it.ID,
		&it.Name,
		&it.Quantity,
		&it.Category,
		&exp,
		&created,
		&updated,
	); err != nil {
		return pantry.Item{}, err
	}

	if exp.Valid && exp.String != "" {
		t, err := time.Parse(dateLayout, exp.String)
		if err != nil {
			return pantry.Item{}, err
		}
		it.ExpiresAt = &t
	}

	var err error
	if it.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return pantry.Item{}, err
	}
	if it.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return pantry.Item{}, err
	}

	return it, nil
}

func toDateString(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateLayout), Valid: true}
}
