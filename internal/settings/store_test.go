package settings

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func TestMinStockDefault(t *testing.T) {
	store, _ := newTestStore(t)

	threshold, err := store.MinStock(context.Background())
	require.NoError(t, err)
	require.Equal(t, DefaultMinStock, threshold)
}

func TestSetMinStockRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetMinStock(ctx, 7))

	threshold, err := store.MinStock(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 7, threshold)

	// Zero disables the low-stock highlight and is a valid setting.
	require.NoError(t, store.SetMinStock(ctx, 0))
	threshold, err = store.MinStock(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, threshold)
}

func TestSetMinStockRejectsNegative(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.SetMinStock(context.Background(), -1)
	require.Error(t, err)
}

func TestMinStockCorruptValue(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Set(minStockKey, "not-a-number")

	_, err := store.MinStock(context.Background())
	require.Error(t, err)
}
