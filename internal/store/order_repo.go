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

type OrderRepo struct{ DB *pgxpool.Pool }

const orderColumns = `id, version, customer_id, customer_ref, payment_amount, created_at, updated_at`
const lineColumns = `id, version, beer_order_id, beer_id, order_quantity, quantity_allocated, line_status, created_at, updated_at`
const shipmentColumns = `id, version, beer_order_id, tracking_number, created_at, updated_at`

func (r *OrderRepo) GetByID(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	var ref *string
	err := r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM beer_orders WHERE id=$1`, id).
		Scan(&o.ID, &o.Version, &o.CustomerID, &ref, &o.PaymentAmount, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	if ref != nil {
		o.CustomerRef = *ref
	}

	if o.Lines, err = r.linesFor(ctx, id); err != nil {
		return domain.Order{}, err
	}
	if o.Shipment, err = r.shipmentFor(ctx, id); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrderRepo) linesFor(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+lineColumns+` FROM beer_order_lines
		WHERE beer_order_id=$1 ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.Version, &l.OrderID, &l.BeerID, &l.OrderQuantity,
			&l.QuantityAllocated, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *OrderRepo) shipmentFor(ctx context.Context, orderID string) (*domain.Shipment, error) {
	var s domain.Shipment
	err := r.DB.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM beer_order_shipments WHERE beer_order_id=$1`, orderID).
		Scan(&s.ID, &s.Version, &s.OrderID, &s.TrackingNumber, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *OrderRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM beer_orders WHERE id=$1`, id).Scan(&n)
	return n > 0, err
}

func (r *OrderRepo) List(ctx context.Context, limit, offset int) ([]domain.Order, int64, error) {
	var total int64
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM beer_orders`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id FROM beer_orders
		ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, 0, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		o, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, nil
}

// Create persists a whole new aggregate in one transaction: order row, all
// lines, and the shipment when present.
func (r *OrderRepo) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o.ID = uuid.NewString()
	o.Version = 0
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	if _, err := tx.Exec(ctx, `
		INSERT INTO beer_orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		o.ID, o.Version, o.CustomerID, nullable(o.CustomerRef), o.PaymentAmount, o.CreatedAt, o.UpdatedAt); err != nil {
		return domain.Order{}, err
	}

	for i := range o.Lines {
		if err := insertLine(ctx, tx, o.ID, &o.Lines[i], now); err != nil {
			return domain.Order{}, err
		}
	}

	if o.Shipment != nil {
		if err := insertShipment(ctx, tx, o.ID, o.Shipment, now); err != nil {
			return domain.Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, err
	}
	return r.GetByID(ctx, o.ID)
}

// UpdateAggregate persists a reconciled aggregate all-or-nothing. The order
// row is the concurrency gate: its compare-and-set must win before any line
// or shipment row is touched, so a conflicting writer can never interleave
// partial aggregate state. Lines are updated only when their content
// actually changed, new lines (empty id) are inserted, lines missing from
// the aggregate are left alone, and an existing shipment row is never
// modified.
func (r *OrderRepo) UpdateAggregate(ctx context.Context, o domain.Order) (domain.Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	ct, err := tx.Exec(ctx, `
		UPDATE beer_orders
		SET customer_id=$1, customer_ref=$2, payment_amount=$3, version=version+1, updated_at=$4
		WHERE id=$5 AND version=$6`,
		o.CustomerID, nullable(o.CustomerRef), o.PaymentAmount, now, o.ID, o.Version)
	if err != nil {
		return domain.Order{}, err
	}
	if ct.RowsAffected() == 0 {
		var current int64
		err := tx.QueryRow(ctx, `SELECT version FROM beer_orders WHERE id=$1`, o.ID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.ErrNotFound
		}
		if err != nil {
			return domain.Order{}, err
		}
		return domain.Order{}, &domain.ConflictError{Current: current}
	}

	existing, err := existingLines(ctx, tx, o.ID)
	if err != nil {
		return domain.Order{}, err
	}

	for i := range o.Lines {
		l := &o.Lines[i]
		if l.ID == "" {
			if err := insertLine(ctx, tx, o.ID, l, now); err != nil {
				return domain.Order{}, err
			}
			continue
		}
		prev, ok := existing[l.ID]
		if !ok {
			return domain.Order{}, domain.ErrNotFound
		}
		if prev.BeerID == l.BeerID && prev.OrderQuantity == l.OrderQuantity &&
			prev.QuantityAllocated == l.QuantityAllocated {
			continue
		}
		if _, err := tx.Exec(ctx, `
			UPDATE beer_order_lines
			SET beer_id=$1, order_quantity=$2, quantity_allocated=$3, version=version+1, updated_at=$4
			WHERE id=$5`,
			l.BeerID, l.OrderQuantity, l.QuantityAllocated, now, l.ID); err != nil {
			return domain.Order{}, err
		}
	}

	if o.Shipment != nil && o.Shipment.ID == "" {
		if err := insertShipment(ctx, tx, o.ID, o.Shipment, now); err != nil {
			return domain.Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, err
	}
	return r.GetByID(ctx, o.ID)
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	// lines and shipment go with the order (ON DELETE CASCADE)
	ct, err := r.DB.Exec(ctx, `DELETE FROM beer_orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func existingLines(ctx context.Context, tx pgx.Tx, orderID string) (map[string]domain.OrderLine, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, beer_id, order_quantity, quantity_allocated
		FROM beer_order_lines WHERE beer_order_id=$1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]domain.OrderLine{}
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.BeerID, &l.OrderQuantity, &l.QuantityAllocated); err != nil {
			return nil, err
		}
		out[l.ID] = l
	}
	return out, rows.Err()
}

func insertLine(ctx context.Context, tx pgx.Tx, orderID string, l *domain.OrderLine, now time.Time) error {
	l.ID = uuid.NewString()
	l.Version = 0
	l.OrderID = orderID
	if l.Status == "" {
		l.Status = domain.LineStatusNew
	}
	l.CreatedAt = now
	l.UpdatedAt = now
	_, err := tx.Exec(ctx, `
		INSERT INTO beer_order_lines (`+lineColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		l.ID, l.Version, l.OrderID, l.BeerID, l.OrderQuantity, l.QuantityAllocated,
		l.Status, l.CreatedAt, l.UpdatedAt)
	return err
}

func insertShipment(ctx context.Context, tx pgx.Tx, orderID string, s *domain.Shipment, now time.Time) error {
	s.ID = uuid.NewString()
	s.Version = 0
	s.OrderID = orderID
	s.CreatedAt = now
	s.UpdatedAt = now
	_, err := tx.Exec(ctx, `
		INSERT INTO beer_order_shipments (`+shipmentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		s.ID, s.Version, s.OrderID, s.TrackingNumber, s.CreatedAt, s.UpdatedAt)
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
