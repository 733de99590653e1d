package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbeecher/beerworks/internal/domain"
)

type BeerRepo struct{ DB *pgxpool.Pool }

const beerColumns = `id, version, beer_name, beer_style, upc, quantity_on_hand, price, created_at, updated_at`

func scanBeer(row pgx.Row) (domain.Beer, error) {
	var b domain.Beer
	err := row.Scan(&b.ID, &b.Version, &b.Name, &b.Style, &b.UPC, &b.QuantityOnHand,
		&b.Price, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Beer{}, domain.ErrNotFound
	}
	return b, err
}

func (r *BeerRepo) GetByID(ctx context.Context, id string) (domain.Beer, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+beerColumns+` FROM beers WHERE id=$1`, id)
	return scanBeer(row)
}

func (r *BeerRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM beers WHERE id=$1`, id).Scan(&n)
	return n > 0, err
}

func (r *BeerRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM beers`).Scan(&n)
	return n, err
}

// List executes the plan: name-only, style-only, both, or neither select
// different WHERE paths, all sorted by name for determinism.
func (r *BeerRepo) List(ctx context.Context, q domain.BeerQuery) ([]domain.Beer, int64, error) {
	where := ``
	args := []any{}
	switch {
	case q.HasName && q.HasStyle:
		where = `WHERE beer_name ILIKE $1 AND beer_style = $2`
		args = append(args, "%"+q.Name+"%", q.Style)
	case q.HasName:
		where = `WHERE beer_name ILIKE $1`
		args = append(args, "%"+q.Name+"%")
	case q.HasStyle:
		where = `WHERE beer_style = $1`
		args = append(args, q.Style)
	}

	var total int64
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM beers `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sql := fmt.Sprintf(`SELECT `+beerColumns+` FROM beers `+where+
		` ORDER BY beer_name ASC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Beer
	for rows.Next() {
		b, err := scanBeer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *BeerRepo) Insert(ctx context.Context, b domain.Beer) (domain.Beer, error) {
	b.ID = uuid.NewString()
	b.Version = 0
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	_, err := r.DB.Exec(ctx, `
		INSERT INTO beers (`+beerColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		b.ID, b.Version, b.Name, b.Style, b.UPC, b.QuantityOnHand, b.Price, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return domain.Beer{}, err
	}
	return b, nil
}

// Update is the optimistic write: the version bump and the field changes
// commit in one statement, guarded by the version the caller read. Zero
// rows affected means either the row is gone (not found) or someone else
// won the race (conflict carrying the current stored version).
func (r *BeerRepo) Update(ctx context.Context, b domain.Beer) (domain.Beer, error) {
	now := time.Now().UTC()
	ct, err := r.DB.Exec(ctx, `
		UPDATE beers
		SET beer_name=$1, beer_style=$2, upc=$3, quantity_on_hand=$4, price=$5,
		    version=version+1, updated_at=$6
		WHERE id=$7 AND version=$8`,
		b.Name, b.Style, b.UPC, b.QuantityOnHand, b.Price, now, b.ID, b.Version)
	if err != nil {
		return domain.Beer{}, err
	}
	if ct.RowsAffected() == 0 {
		return domain.Beer{}, r.versionConflict(ctx, b.ID)
	}
	return r.GetByID(ctx, b.ID)
}

func (r *BeerRepo) versionConflict(ctx context.Context, id string) error {
	var current int64
	err := r.DB.QueryRow(ctx, `SELECT version FROM beers WHERE id=$1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return &domain.ConflictError{Current: current}
}

func (r *BeerRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM beers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
