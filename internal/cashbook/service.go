package cashbook

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Arekyus/Sistema-comerciantes/internal/sales"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	ListSales(ctx context.Context) ([]sales.Sale, error)
	SaleDetails(ctx context.Context, saleID int64) (*SaleDetail, error)
	Summary(ctx context.Context, from, to time.Time) ([]SummaryRow, error)
}

// FormattedSummaryRow pairs a summary row with its display total.
type FormattedSummaryRow struct {
	SummaryRow
	TotalFormatted string `json:"total_formatted"`
}

// Service serves the cash-book projections.
type Service struct {
	repo    RepositoryPort
	printer *message.Printer
}

// NewService builds Service. Totals are rendered with Brazilian grouping,
// matching the merchant audience of the product.
func NewService(repo RepositoryPort) *Service {
	return &Service{
		repo:    repo,
		printer: message.NewPrinter(language.BrazilianPortuguese),
	}
}

// ListSales returns every committed sale, newest first.
func (s *Service) ListSales(ctx context.Context) ([]sales.Sale, error) {
	return s.repo.ListSales(ctx)
}

// SaleDetails returns one sale and its items.
func (s *Service) SaleDetails(ctx context.Context, saleID int64) (*SaleDetail, error) {
	return s.repo.SaleDetails(ctx, saleID)
}

// Summary aggregates the cash book between two dates, inclusive.
func (s *Service) Summary(ctx context.Context, from, to time.Time) ([]FormattedSummaryRow, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("cashbook: date range end before start")
	}
	rows, err := s.repo.Summary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	formatted := make([]FormattedSummaryRow, 0, len(rows))
	for _, row := range rows {
		formatted = append(formatted, FormattedSummaryRow{
			SummaryRow:     row,
			TotalFormatted: s.FormatAmount(row.Total),
		})
	}
	return formatted, nil
}

// FormatAmount renders a money amount for display.
func (s *Service) FormatAmount(v float64) string {
	return s.printer.Sprintf("R$ %.2f", v)
}
