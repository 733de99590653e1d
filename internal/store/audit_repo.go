package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbeecher/beerworks/internal/domain"
)

// AuditRepo appends audit records. There is no update path: rows are
// write-once snapshots.
type AuditRepo struct{ DB *pgxpool.Pool }

func (r *AuditRepo) Insert(ctx context.Context, a domain.AuditRecord) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO beer_audit
			(audit_id, beer_id, version, beer_name, beer_style, upc, quantity_on_hand,
			 price, created_at, updated_at, event_type, principal_name, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		a.AuditID, a.BeerID, a.Version, a.Name, a.Style, a.UPC, a.QuantityOnHand,
		a.Price, a.CreatedAt, a.UpdatedAt, a.EventType, nullable(a.Principal), a.RecordedAt)
	return err
}

// ListByBeer returns a beer's audit trail ordered by audit id; v7 ids are
// time-ordered, so this is chronological.
func (r *AuditRepo) ListByBeer(ctx context.Context, beerID string) ([]domain.AuditRecord, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT audit_id, beer_id, version, beer_name, beer_style, upc, quantity_on_hand,
		       price, created_at, updated_at, event_type, COALESCE(principal_name, ''), recorded_at
		FROM beer_audit WHERE beer_id=$1 ORDER BY audit_id`, beerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditRecord
	for rows.Next() {
		var a domain.AuditRecord
		if err := rows.Scan(&a.AuditID, &a.BeerID, &a.Version, &a.Name, &a.Style, &a.UPC,
			&a.QuantityOnHand, &a.Price, &a.CreatedAt, &a.UpdatedAt, &a.EventType,
			&a.Principal, &a.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
