package sales

import (
	"errors"
	"time"
)

// PaymentMethod enumerates how a sale was settled.
type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "PIX"
	PaymentCard PaymentMethod = "Card"
	PaymentCash PaymentMethod = "Cash"
)

// Valid reports whether the payment method is one of the fixed enumeration.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentPix, PaymentCard, PaymentCash:
		return true
	}
	return false
}

// DefaultClient is recorded when the buyer gives no name.
const DefaultClient = "Unidentified customer"

// Sale is one committed checkout. Immutable once written.
type Sale struct {
	ID            int64         `json:"id"`
	Number        string        `json:"number"`
	Client        string        `json:"client"`
	Phone         string        `json:"phone"`
	Total         float64       `json:"total"`
	Date          time.Time     `json:"date"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// SaleItem is one product line within a sale. Price is a snapshot of the
// unit price at the time of sale, not a live reference to the product.
type SaleItem struct {
	ID        int64   `json:"id"`
	SaleID    int64   `json:"sale_id"`
	ProductID int64   `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
}

// Line is one requested product entry of a sale being recorded.
type Line struct {
	ProductID int64   `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// CreateSaleInput is everything the recorder needs for one sale.
type CreateSaleInput struct {
	Number        string
	Client        string
	Phone         string
	PaymentMethod PaymentMethod
	Lines         []Line
}

// Summary is returned to the caller after a successful commit.
type Summary struct {
	ID            int64         `json:"id"`
	Number        string        `json:"number"`
	Date          string        `json:"date"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Total         float64       `json:"total"`
}

var (
	// ErrInvalidPayment indicates a payment method outside the enumeration.
	ErrInvalidPayment = errors.New("sales: invalid payment method")
	// ErrInvalidLine indicates a line with a non-positive quantity or a
	// total that does not equal quantity times unit price.
	ErrInvalidLine = errors.New("sales: invalid line")
	// ErrInvalidNumber indicates a malformed sale number.
	ErrInvalidNumber = errors.New("sales: invalid sale number")
	// ErrInsufficientStock indicates a line asking for more units than the
	// product has on hand.
	ErrInsufficientStock = errors.New("sales: insufficient stock")
	// ErrNotFound indicates a missing sale.
	ErrNotFound = errors.New("sales: sale not found")
)
