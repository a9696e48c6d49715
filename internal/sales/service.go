package sales

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// moneyEpsilon absorbs float rounding when comparing currency amounts.
const moneyEpsilon = 0.005

// Service records sales. Sale creation is serialized in-process: number
// allocation and the sale insert are separate statements, so two in-flight
// sales could otherwise allocate the same number.
type Service struct {
	repo Repository

	mu sync.Mutex
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NextNumber allocates the next sale number: the highest persisted number
// plus one, zero-padded to four digits, "0001" on an empty store. It reads
// persisted state every time so numbers stay correct even after a sale
// failed and never committed.
func (s *Service) NextNumber(ctx context.Context) (string, error) {
	max, err := s.repo.MaxSaleNumber(ctx)
	if err != nil {
		return "", err
	}
	return formatNumber(max + 1), nil
}

// CreateSale persists the sale header, its line items and the per-line
// stock decrements as one transaction. Any sub-step failure rolls the whole
// set back; no partial rows or stock changes survive.
func (s *Service) CreateSale(ctx context.Context, input CreateSaleInput) (*Summary, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	sale := Sale{
		Number:        input.Number,
		Client:        strings.TrimSpace(input.Client),
		Phone:         strings.TrimSpace(input.Phone),
		Total:         lineSum(input.Lines),
		Date:          time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		PaymentMethod: input.PaymentMethod,
	}
	if sale.Client == "" {
		sale.Client = DefaultClient
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertSale(ctx, sale)
		if err != nil {
			return err
		}
		sale.ID = id

		for _, line := range input.Lines {
			if _, err := tx.InsertItem(ctx, SaleItem{
				SaleID:    id,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.UnitPrice,
				Total:     line.Total,
			}); err != nil {
				return err
			}

			// Lock the product row before decrementing so availability
			// cannot change between the check and the write.
			product, err := tx.LockProduct(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if product.Quantity < line.Quantity {
				return fmt.Errorf("%w: product %d has %d, sale needs %d",
					ErrInsufficientStock, line.ProductID, product.Quantity, line.Quantity)
			}
			if err := tx.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Summary{
		ID:            sale.ID,
		Number:        sale.Number,
		Date:          sale.Date.Format("2006-01-02"),
		PaymentMethod: sale.PaymentMethod,
		Total:         sale.Total,
	}, nil
}

func validateInput(input CreateSaleInput) error {
	if !input.PaymentMethod.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPayment, input.PaymentMethod)
	}
	if err := validateNumber(input.Number); err != nil {
		return err
	}
	for i, line := range input.Lines {
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: line %d quantity must be positive", ErrInvalidLine, i)
		}
		if line.UnitPrice < 0 {
			return fmt.Errorf("%w: line %d unit price must be non-negative", ErrInvalidLine, i)
		}
		expected := float64(line.Quantity) * line.UnitPrice
		if math.Abs(line.Total-expected) > moneyEpsilon {
			return fmt.Errorf("%w: line %d total %.2f does not match quantity x unit price %.2f",
				ErrInvalidLine, i, line.Total, expected)
		}
	}
	return nil
}

func validateNumber(number string) error {
	if number == "" {
		return fmt.Errorf("%w: empty", ErrInvalidNumber)
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q", ErrInvalidNumber, number)
		}
	}
	return nil
}

func lineSum(lines []Line) float64 {
	var total float64
	for _, line := range lines {
		total += line.Total
	}
	return total
}

func formatNumber(n int64) string {
	return fmt.Sprintf("%04d", n)
}
