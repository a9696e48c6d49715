package sales

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Arekyus/Sistema-comerciantes/internal/catalog"
	"github.com/Arekyus/Sistema-comerciantes/internal/platform/db"
)

// Repository abstracts sale persistence for the service.
type Repository interface {
	// WithTx runs fn inside one database transaction. Every statement fn
	// issues through the TxRepository is committed or rolled back as a
	// single unit.
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	// MaxSaleNumber returns the highest persisted sale number cast to an
	// integer, zero when no sales exist.
	MaxSaleNumber(ctx context.Context) (int64, error)
}

// TxRepository exposes the statements the recorder issues inside one sale
// transaction, including the product ledger operations bound to the same
// transaction.
type TxRepository interface {
	InsertSale(ctx context.Context, sale Sale) (int64, error)
	InsertItem(ctx context.Context, item SaleItem) (int64, error)
	LockProduct(ctx context.Context, productID int64) (*catalog.Product, error)
	DecrementStock(ctx context.Context, productID, amount int64) error
}

type repository struct {
	pool   *pgxpool.Pool
	ledger *catalog.Repository
}

// NewRepository constructs the PostgreSQL-backed sale repository. The
// ledger is re-bound to each open transaction so stock decrements share the
// sale's transaction boundary.
func NewRepository(pool *pgxpool.Pool, ledger *catalog.Repository) Repository {
	return &repository{pool: pool, ledger: ledger}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx, ledger: r.ledger.WithDB(tx)})
	})
}

func (r *repository) MaxSaleNumber(ctx context.Context) (int64, error) {
	var max int64
	err := r.pool.QueryRow(ctx,
		"SELECT COALESCE(MAX(CAST(number AS INTEGER)), 0) FROM sales",
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("sales: max sale number: %w", err)
	}
	return max, nil
}

type txRepo struct {
	tx     pgx.Tx
	ledger *catalog.Repository
}

func (t *txRepo) InsertSale(ctx context.Context, sale Sale) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO sales (number, client, phone, total, sale_date, payment_method)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		sale.Number, sale.Client, sale.Phone, numeric(sale.Total),
		pgtype.Date{Time: sale.Date, Valid: true}, string(sale.PaymentMethod),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("sales: insert sale: %w", err)
	}
	return id, nil
}

func (t *txRepo) InsertItem(ctx context.Context, item SaleItem) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO sale_items (sale_id, product_id, quantity, price, total)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		item.SaleID, item.ProductID, item.Quantity, numeric(item.Price), numeric(item.Total),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("sales: insert sale item: %w", err)
	}
	return id, nil
}

func (t *txRepo) LockProduct(ctx context.Context, productID int64) (*catalog.Product, error) {
	return t.ledger.GetForUpdate(ctx, productID)
}

func (t *txRepo) DecrementStock(ctx context.Context, productID, amount int64) error {
	return t.ledger.DecrementStock(ctx, productID, amount)
}

func numeric(f float64) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(fmt.Sprintf("%f", f))
	return n
}
