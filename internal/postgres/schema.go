package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS beers (
		id               VARCHAR(36) PRIMARY KEY,
		version          BIGINT NOT NULL DEFAULT 0,
		beer_name        VARCHAR(50) NOT NULL,
		beer_style       VARCHAR(20) NOT NULL,
		upc              VARCHAR(255) NOT NULL,
		quantity_on_hand INTEGER,
		price            NUMERIC(10,2) NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id         VARCHAR(36) PRIMARY KEY,
		version    BIGINT NOT NULL DEFAULT 0,
		name       VARCHAR(255) NOT NULL,
		email      VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS beer_orders (
		id             VARCHAR(36) PRIMARY KEY,
		version        BIGINT NOT NULL DEFAULT 0,
		customer_id    VARCHAR(36) NOT NULL REFERENCES customers(id),
		customer_ref   VARCHAR(255),
		payment_amount NUMERIC(10,2),
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS beer_order_lines (
		id                 VARCHAR(36) PRIMARY KEY,
		version            BIGINT NOT NULL DEFAULT 0,
		beer_order_id      VARCHAR(36) NOT NULL REFERENCES beer_orders(id) ON DELETE CASCADE,
		beer_id            VARCHAR(36) NOT NULL REFERENCES beers(id),
		order_quantity     INTEGER NOT NULL,
		quantity_allocated INTEGER NOT NULL DEFAULT 0,
		line_status        VARCHAR(30) NOT NULL DEFAULT 'NEW',
		created_at         TIMESTAMPTZ NOT NULL,
		updated_at         TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS beer_order_shipments (
		id              VARCHAR(36) PRIMARY KEY,
		version         BIGINT NOT NULL DEFAULT 0,
		beer_order_id   VARCHAR(36) NOT NULL UNIQUE REFERENCES beer_orders(id) ON DELETE CASCADE,
		tracking_number VARCHAR(255) NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS beer_audit (
		audit_id         VARCHAR(36) PRIMARY KEY,
		beer_id          VARCHAR(36) NOT NULL,
		version          BIGINT NOT NULL,
		beer_name        VARCHAR(50) NOT NULL,
		beer_style       VARCHAR(20) NOT NULL,
		upc              VARCHAR(255) NOT NULL,
		quantity_on_hand INTEGER,
		price            NUMERIC(10,2) NOT NULL,
		created_at       TIMESTAMPTZ,
		updated_at       TIMESTAMPTZ,
		event_type       VARCHAR(20) NOT NULL,
		principal_name   VARCHAR(255),
		recorded_at      TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate creates the tables when they do not exist yet. Idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
