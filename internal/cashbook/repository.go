package cashbook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Arekyus/Sistema-comerciantes/internal/sales"
)

// ItemDetail is one sale line joined with the product it referenced.
type ItemDetail struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	ProductCode string  `json:"product_code"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

// SaleDetail is a sale header with its joined items.
type SaleDetail struct {
	sales.Sale
	Items []ItemDetail `json:"items"`
}

// SummaryRow aggregates committed sales for one date and payment method.
type SummaryRow struct {
	Date          string  `json:"date"`
	PaymentMethod string  `json:"payment_method"`
	SalesCount    int64   `json:"sales_count"`
	Total         float64 `json:"total"`
}

// Repository reads sale projections from PostgreSQL. It never mutates.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const saleColumns = "id, number, COALESCE(client, ''), COALESCE(phone, ''), total, sale_date, payment_method"

// ListSales returns every sale, newest first.
func (r *Repository) ListSales(ctx context.Context) ([]sales.Sale, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+saleColumns+" FROM sales ORDER BY sale_date DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("cashbook: list sales: %w", err)
	}
	defer rows.Close()

	var result []sales.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// SaleDetails returns one sale with its items joined against the catalog.
func (r *Repository) SaleDetails(ctx context.Context, saleID int64) (*SaleDetail, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+saleColumns+" FROM sales WHERE id = $1", saleID)
	header, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sales.ErrNotFound
		}
		return nil, fmt.Errorf("cashbook: get sale: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT si.id, si.product_id, p.name, p.code, si.quantity, si.price, si.total
		 FROM sale_items si
		 JOIN products p ON si.product_id = p.id
		 WHERE si.sale_id = $1
		 ORDER BY si.id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("cashbook: sale items: %w", err)
	}
	defer rows.Close()

	detail := &SaleDetail{Sale: header, Items: []ItemDetail{}}
	for rows.Next() {
		var item ItemDetail
		var price, total pgtype.Numeric
		if err := rows.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.ProductCode,
			&item.Quantity, &price, &total); err != nil {
			return nil, fmt.Errorf("cashbook: scan sale item: %w", err)
		}
		item.Price = numericToFloat(price)
		item.Total = numericToFloat(total)
		detail.Items = append(detail.Items, item)
	}
	return detail, rows.Err()
}

// Summary aggregates sales between from and to (inclusive), grouped by date
// and payment method, newest first.
func (r *Repository) Summary(ctx context.Context, from, to time.Time) ([]SummaryRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT sale_date, payment_method, COUNT(*), SUM(total)
		 FROM sales
		 WHERE sale_date BETWEEN $1 AND $2
		 GROUP BY sale_date, payment_method
		 ORDER BY sale_date DESC, payment_method`,
		pgtype.Date{Time: from, Valid: true}, pgtype.Date{Time: to, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("cashbook: summary: %w", err)
	}
	defer rows.Close()

	var result []SummaryRow
	for rows.Next() {
		var row SummaryRow
		var date pgtype.Date
		var total pgtype.Numeric
		if err := rows.Scan(&date, &row.PaymentMethod, &row.SalesCount, &total); err != nil {
			return nil, fmt.Errorf("cashbook: scan summary row: %w", err)
		}
		row.Date = date.Time.Format("2006-01-02")
		row.Total = numericToFloat(total)
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanSale(row pgx.Row) (sales.Sale, error) {
	var s sales.Sale
	var total pgtype.Numeric
	var date pgtype.Date
	var method string
	if err := row.Scan(&s.ID, &s.Number, &s.Client, &s.Phone, &total, &date, &method); err != nil {
		return sales.Sale{}, err
	}
	s.Total = numericToFloat(total)
	s.Date = date.Time
	s.PaymentMethod = sales.PaymentMethod(method)
	return s, nil
}

func numericToFloat(n pgtype.Numeric) float64 {
	f, _ := n.Float64Value()
	return f.Float64
}
