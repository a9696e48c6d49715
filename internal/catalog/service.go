package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	Insert(ctx context.Context, in ProductInput) (int64, error)
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id int64) error
}

// ThresholdSource supplies the merchant's minimum-stock setting. It only
// drives low-stock highlighting in listings.
type ThresholdSource interface {
	MinStock(ctx context.Context) (int64, error)
}

// Service coordinates product ledger operations.
type Service struct {
	logger    *slog.Logger
	repo      RepositoryPort
	threshold ThresholdSource
}

// NewService builds Service. threshold may be nil, in which case listings
// carry no low-stock flags.
func NewService(logger *slog.Logger, repo RepositoryPort, threshold ThresholdSource) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, repo: repo, threshold: threshold}
}

// List returns all products decorated with low-stock flags.
func (s *Service) List(ctx context.Context) ([]ProductView, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var minStock int64
	if s.threshold != nil {
		v, err := s.threshold.MinStock(ctx)
		if err != nil {
			// Listings degrade to unflagged rather than failing outright.
			s.logger.Warn("min stock unavailable, listing without low-stock flags", slog.Any("error", err))
		} else {
			minStock = v
		}
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{
			Product:  p,
			LowStock: minStock > 0 && p.Quantity < minStock,
		})
	}
	return views, nil
}

// Get fetches a single product.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

// Add validates and stores a new product.
func (s *Service) Add(ctx context.Context, in ProductInput) (*Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	id, err := s.repo.Insert(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("add product: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update validates and overwrites an existing product.
func (s *Service) Update(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, Product{
		ID:        id,
		Code:      in.Code,
		Name:      in.Name,
		Price:     in.Price,
		CostPrice: in.CostPrice,
		Quantity:  in.Quantity,
	}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a product from the catalog.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validateInput(in ProductInput) error {
	if strings.TrimSpace(in.Code) == "" || strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: code and name required", ErrInvalidInput)
	}
	if in.Price < 0 || in.CostPrice < 0 {
		return fmt.Errorf("%w: prices must be non-negative", ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return fmt.Errorf("%w: quantity must be non-negative", ErrInvalidInput)
	}
	return nil
}
