package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbeecher/beerworks/internal/domain"
)

type CustomerRepo struct{ DB *pgxpool.Pool }

const customerColumns = `id, version, name, email, created_at, updated_at`

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Version, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Customer{}, domain.ErrNotFound
	}
	return c, err
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=$1`, id)
	return scanCustomer(row)
}

func (r *CustomerRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE id=$1`, id).Scan(&n)
	return n > 0, err
}

func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]domain.Customer, int64, error) {
	var total int64
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.Query(ctx, `
		SELECT `+customerColumns+` FROM customers
		ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *CustomerRepo) Insert(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	c.ID = uuid.NewString()
	c.Version = 0
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := r.DB.Exec(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.Version, c.Name, c.Email, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

// Update follows the same compare-and-set discipline as the beer repo.
func (r *CustomerRepo) Update(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE customers
		SET name=$1, email=$2, version=version+1, updated_at=$3
		WHERE id=$4 AND version=$5`,
		c.Name, c.Email, time.Now().UTC(), c.ID, c.Version)
	if err != nil {
		return domain.Customer{}, err
	}
	if ct.RowsAffected() == 0 {
		var current int64
		err := r.DB.QueryRow(ctx, `SELECT version FROM customers WHERE id=$1`, c.ID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, domain.ErrNotFound
		}
		if err != nil {
			return domain.Customer{}, err
		}
		return domain.Customer{}, &domain.ConflictError{Current: current}
	}
	return r.GetByID(ctx, c.ID)
}

func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
