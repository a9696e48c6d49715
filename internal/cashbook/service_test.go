package cashbook

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Arekyus/Sistema-comerciantes/internal/sales"
)

type stubRepo struct {
	sales   []sales.Sale
	details map[int64]*SaleDetail
	rows    []SummaryRow

	gotFrom time.Time
	gotTo   time.Time
}

func (r *stubRepo) ListSales(ctx context.Context) ([]sales.Sale, error) {
	return r.sales, nil
}

func (r *stubRepo) SaleDetails(ctx context.Context, saleID int64) (*SaleDetail, error) {
	d, ok := r.details[saleID]
	if !ok {
		return nil, sales.ErrNotFound
	}
	return d, nil
}

func (r *stubRepo) Summary(ctx context.Context, from, to time.Time) ([]SummaryRow, error) {
	r.gotFrom, r.gotTo = from, to
	return r.rows, nil
}

func TestSummaryFormatsTotals(t *testing.T) {
	repo := &stubRepo{rows: []SummaryRow{
		{Date: "2026-08-30", PaymentMethod: "Cash", SalesCount: 2, Total: 1234.5},
		{Date: "2026-08-30", PaymentMethod: "PIX", SalesCount: 1, Total: 40},
	}}
	svc := NewService(repo)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	rows, err := svc.Summary(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, from, repo.gotFrom)
	require.Equal(t, to, repo.gotTo)
	for _, row := range rows {
		require.Contains(t, row.TotalFormatted, "R$")
	}
}

func TestSummaryRejectsInvertedRange(t *testing.T) {
	svc := NewService(&stubRepo{})

	from := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	_, err := svc.Summary(context.Background(), from, to)
	require.Error(t, err)
}

func TestSaleDetailsPassthrough(t *testing.T) {
	detail := &SaleDetail{
		Sale: sales.Sale{ID: 7, Number: "0007", Total: 40, PaymentMethod: sales.PaymentCash},
		Items: []ItemDetail{
			{ID: 1, ProductID: 1, ProductName: "Product A", Quantity: 2, Price: 10, Total: 20},
			{ID: 2, ProductID: 2, ProductName: "Product B", Quantity: 1, Price: 20, Total: 20},
		},
	}
	repo := &stubRepo{details: map[int64]*SaleDetail{7: detail}}
	svc := NewService(repo)
	ctx := context.Background()

	got, err := svc.SaleDetails(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, detail, got)

	_, err = svc.SaleDetails(ctx, 999)
	require.ErrorIs(t, err, sales.ErrNotFound)
}

func TestListSalesPassthrough(t *testing.T) {
	repo := &stubRepo{sales: []sales.Sale{
		{ID: 2, Number: "0002"},
		{ID: 1, Number: "0001"},
	}}
	svc := NewService(repo)

	got, err := svc.ListSales(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "0002", got[0].Number)
}
