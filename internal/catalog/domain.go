package catalog

import "errors"

// Product is one catalog entry. Quantity is the on-hand stock count,
// mutated by edits and by stock decrements from completed sales.
type Product struct {
	ID        int64   `json:"id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	CostPrice float64 `json:"cost_price"`
	Quantity  int64   `json:"quantity"`
}

// ProductView decorates a product for listings. LowStock is display-only:
// the sale flow never consults it.
type ProductView struct {
	Product
	LowStock bool `json:"low_stock"`
}

// ProductInput carries the fields a merchant supplies when creating or
// editing a product.
type ProductInput struct {
	Code      string  `json:"code" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price" validate:"gte=0"`
	CostPrice float64 `json:"cost_price" validate:"gte=0"`
	Quantity  int64   `json:"quantity" validate:"gte=0"`
}

var (
	// ErrNotFound indicates the product does not exist.
	ErrNotFound = errors.New("catalog: product not found")
	// ErrInvalidInput indicates a rejected product payload.
	ErrInvalidInput = errors.New("catalog: invalid product")
)
