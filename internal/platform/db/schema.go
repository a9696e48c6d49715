package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          BIGSERIAL PRIMARY KEY,
		code        TEXT NOT NULL,
		name        TEXT NOT NULL,
		price       NUMERIC(12,2) NOT NULL,
		cost_price  NUMERIC(12,2),
		quantity    BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id             BIGSERIAL PRIMARY KEY,
		number         TEXT NOT NULL,
		client         TEXT,
		phone          TEXT,
		total          NUMERIC(12,2) NOT NULL,
		sale_date      DATE NOT NULL,
		payment_method TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sale_items (
		id         BIGSERIAL PRIMARY KEY,
		sale_id    BIGINT NOT NULL REFERENCES sales(id),
		product_id BIGINT NOT NULL REFERENCES products(id),
		quantity   BIGINT NOT NULL,
		price      NUMERIC(12,2) NOT NULL,
		total      NUMERIC(12,2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_items_sale_id ON sale_items (sale_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_items_product_id ON sale_items (product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales (sale_date)`,
}

// EnsureSchema creates the product, sale and sale item tables when absent.
// It runs inside a single transaction so a partially created schema never
// survives a failed startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return WithTx(ctx, pool, func(tx pgx.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("platform/db: ensure schema: %w", err)
			}
		}
		return nil
	})
}
