package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository persists products in PostgreSQL. It can be bound either to the
// pool or, via WithDB, to an open transaction so the sale recorder can issue
// ledger statements inside its own transaction boundary.
type Repository struct {
	db dbtx
}

// NewRepository constructs Repository over the connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// WithDB returns a Repository issuing statements against the given executor,
// typically a pgx.Tx owned by a caller.
func (r *Repository) WithDB(db dbtx) *Repository {
	return &Repository{db: db}
}

const productColumns = "id, code, name, price, COALESCE(cost_price, 0), quantity"

// List returns every product.
func (r *Repository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, "SELECT "+productColumns+" FROM products ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("catalog: list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Get fetches one product by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Product, error) {
	row := r.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: get product: %w", err)
	}
	return &p, nil
}

// GetForUpdate fetches a product and locks its row for the remainder of the
// enclosing transaction. Only meaningful on a transaction-bound Repository.
func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*Product, error) {
	row := r.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1 FOR UPDATE", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: lock product: %w", err)
	}
	return &p, nil
}

// Insert stores a new product and returns its generated id.
func (r *Repository) Insert(ctx context.Context, in ProductInput) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO products (code, name, price, cost_price, quantity)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		in.Code, in.Name, numeric(in.Price), numeric(in.CostPrice), in.Quantity,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("catalog: insert product: %w", err)
	}
	return id, nil
}

// Update overwrites every merchant-editable field of a product.
func (r *Repository) Update(ctx context.Context, p Product) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET code = $1, name = $2, price = $3, cost_price = $4, quantity = $5
		 WHERE id = $6`,
		p.Code, p.Name, numeric(p.Price), numeric(p.CostPrice), p.Quantity, p.ID,
	)
	if err != nil {
		return fmt.Errorf("catalog: update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a product. The sale flow never calls this.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("catalog: delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock lowers a product's on-hand quantity by amount. The update
// is relative so interleaved writers cannot lose each other's decrements;
// it never reads the current value first and never clamps at zero. Zero
// rows affected means the product is gone, which callers must treat as an
// error because the decrement is part of the sale's atomicity contract.
func (r *Repository) DecrementStock(ctx context.Context, productID, amount int64) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE products SET quantity = quantity - $1 WHERE id = $2",
		amount, productID,
	)
	if err != nil {
		return fmt.Errorf("catalog: decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var price, costPrice pgtype.Numeric
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &price, &costPrice, &p.Quantity); err != nil {
		return Product{}, err
	}
	p.Price = numericToFloat(price)
	p.CostPrice = numericToFloat(costPrice)
	return p, nil
}

func numericToFloat(n pgtype.Numeric) float64 {
	f, _ := n.Float64Value()
	return f.Float64
}

func numeric(f float64) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(fmt.Sprintf("%f", f))
	return n
}
