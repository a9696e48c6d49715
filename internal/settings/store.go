// Package settings keeps merchant preferences in a key-value store. The
// minimum-stock threshold only drives display highlighting; the sale
// recorder never reads it.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	minStockKey = "settings:min_stock"

	// DefaultMinStock matches the product's out-of-the-box threshold.
	DefaultMinStock int64 = 3
)

// Store reads and writes merchant settings in Redis.
type Store struct {
	client *redis.Client
}

// NewStore constructs Store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// MinStock returns the configured minimum-stock threshold, falling back to
// the default when none has been saved.
func (s *Store) MinStock(ctx context.Context) (int64, error) {
	value, err := s.client.Get(ctx, minStockKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return DefaultMinStock, nil
		}
		return 0, fmt.Errorf("settings: get min stock: %w", err)
	}
	threshold, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("settings: corrupt min stock value %q: %w", value, err)
	}
	return threshold, nil
}

// SetMinStock persists the minimum-stock threshold.
func (s *Store) SetMinStock(ctx context.Context, threshold int64) error {
	if threshold < 0 {
		return fmt.Errorf("settings: min stock must be non-negative")
	}
	if err := s.client.Set(ctx, minStockKey, strconv.FormatInt(threshold, 10), 0).Err(); err != nil {
		return fmt.Errorf("settings: set min stock: %w", err)
	}
	return nil
}
