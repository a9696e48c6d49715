package sales

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Arekyus/Sistema-comerciantes/internal/catalog"
)

// memoryRepo emulates the store's transaction guarantee: statements issued
// inside WithTx apply to staged copies and only become visible on commit.
type memoryRepo struct {
	products map[int64]catalog.Product
	sales    []Sale
	items    []SaleItem

	nextSaleID int64
	nextItemID int64

	// failInsertItemAt aborts the transaction on the n-th item insert
	// (1-based). Zero disables the injection.
	failInsertItemAt int
	insertItemCalls  int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: make(map[int64]catalog.Product)}
}

func (r *memoryRepo) addProduct(p catalog.Product) {
	r.products[p.ID] = p
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx := &memoryTx{
		repo:     r,
		products: make(map[int64]catalog.Product, len(r.products)),
		sales:    append([]Sale(nil), r.sales...),
		items:    append([]SaleItem(nil), r.items...),
	}
	for id, p := range r.products {
		tx.products[id] = p
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	r.products = tx.products
	r.sales = tx.sales
	r.items = tx.items
	return nil
}

func (r *memoryRepo) MaxSaleNumber(ctx context.Context) (int64, error) {
	var max int64
	for _, s := range r.sales {
		n, err := strconv.ParseInt(s.Number, 10, 64)
		if err != nil {
			return 0, err
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

type memoryTx struct {
	repo     *memoryRepo
	products map[int64]catalog.Product
	sales    []Sale
	items    []SaleItem
}

func (t *memoryTx) InsertSale(ctx context.Context, sale Sale) (int64, error) {
	t.repo.nextSaleID++
	sale.ID = t.repo.nextSaleID
	t.sales = append(t.sales, sale)
	return sale.ID, nil
}

func (t *memoryTx) InsertItem(ctx context.Context, item SaleItem) (int64, error) {
	t.repo.insertItemCalls++
	if t.repo.failInsertItemAt > 0 && t.repo.insertItemCalls == t.repo.failInsertItemAt {
		return 0, fmt.Errorf("injected insert failure")
	}
	t.repo.nextItemID++
	item.ID = t.repo.nextItemID
	t.items = append(t.items, item)
	return item.ID, nil
}

func (t *memoryTx) LockProduct(ctx context.Context, productID int64) (*catalog.Product, error) {
	p, ok := t.products[productID]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &p, nil
}

func (t *memoryTx) DecrementStock(ctx context.Context, productID, amount int64) error {
	p, ok := t.products[productID]
	if !ok {
		return catalog.ErrNotFound
	}
	p.Quantity -= amount
	t.products[productID] = p
	return nil
}

func seedTwoProducts(repo *memoryRepo) {
	repo.addProduct(catalog.Product{ID: 1, Code: "A", Name: "Product A", Price: 10, Quantity: 5})
	repo.addProduct(catalog.Product{ID: 2, Code: "B", Name: "Product B", Price: 20, Quantity: 2})
}

func TestNextNumberEmptyStore(t *testing.T) {
	svc := NewService(newMemoryRepo())

	number, err := svc.NextNumber(context.Background())
	require.NoError(t, err)
	require.Equal(t, "0001", number)
}

func TestCreateSaleEndToEnd(t *testing.T) {
	repo := newMemoryRepo()
	seedTwoProducts(repo)
	svc := NewService(repo)
	ctx := context.Background()

	number, err := svc.NextNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, "0001", number)

	summary, err := svc.CreateSale(ctx, CreateSaleInput{
		Number:        number,
		Client:        "Maria",
		PaymentMethod: PaymentCash,
		Lines: []Line{
			{ProductID: 1, Quantity: 2, UnitPrice: 10, Total: 20},
			{ProductID: 2, Quantity: 1, UnitPrice: 20, Total: 20},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "0001", summary.Number)
	require.InDelta(t, 40.0, summary.Total, 0.001)
	require.Equal(t, PaymentCash, summary.PaymentMethod)
	require.Equal(t, time.Now().Format("2006-01-02"), summary.Date)

	require.EqualValues(t, 3, repo.products[1].Quantity)
	require.EqualValues(t, 1, repo.products[2].Quantity)
	require.Len(t, repo.sales, 1)
	require.Len(t, repo.items, 2)

	// Sale total equals the sum of its item totals.
	var itemSum float64
	for _, item := range repo.items {
		require.InDelta(t, float64(item.Quantity)*item.Price, item.Total, 0.001)
		itemSum += item.Total
	}
	require.InDelta(t, repo.sales[0].Total, itemSum, 0.001)

	next, err := svc.NextNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, "0002", next)
}

func TestNextNumberMonotonic(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		repo.addProduct(catalog.Product{ID: int64(i + 1), Quantity: 10, Price: 1})
		number, err := svc.NextNumber(ctx)
		require.NoError(t, err)
		_, err = svc.CreateSale(ctx, CreateSaleInput{
			Number:        number,
			PaymentMethod: PaymentPix,
			Lines:         []Line{{ProductID: int64(i + 1), Quantity: 1, UnitPrice: 1, Total: 1}},
		})
		require.NoError(t, err)
	}

	next, err := svc.NextNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, "0004", next)
	for _, s := range repo.sales {
		require.Less(t, s.Number, next)
	}
}

func TestCreateSaleMissingProductRollsBack(t *testing.T) {
	repo := newMemoryRepo()
	seedTwoProducts(repo)
	svc := NewService(repo)

	_, err := svc.CreateSale(context.Background(), CreateSaleInput{
		Number:        "0001",
		PaymentMethod: PaymentCard,
		Lines: []Line{
			{ProductID: 1, Quantity: 1, UnitPrice: 10, Total: 10},
			{ProductID: 99, Quantity: 1, UnitPrice: 5, Total: 5},
		},
	})
	require.ErrorIs(t, err, catalog.ErrNotFound)

	// No sale header, no items, no stock change survives the rollback.
	require.Empty(t, repo.sales)
	require.Empty(t, repo.items)
	require.EqualValues(t, 5, repo.products[1].Quantity)
	require.EqualValues(t, 2, repo.products[2].Quantity)
}

func TestCreateSaleFailureAtItemKRollsBack(t *testing.T) {
	repo := newMemoryRepo()
	seedTwoProducts(repo)
	repo.failInsertItemAt = 2
	svc := NewService(repo)

	_, err := svc.CreateSale(context.Background(), CreateSaleInput{
		Number:        "0001",
		PaymentMethod: PaymentCash,
		Lines: []Line{
			{ProductID: 1, Quantity: 2, UnitPrice: 10, Total: 20},
			{ProductID: 2, Quantity: 1, UnitPrice: 20, Total: 20},
		},
	})
	require.Error(t, err)

	require.Empty(t, repo.sales)
	require.Empty(t, repo.items)
	require.EqualValues(t, 5, repo.products[1].Quantity)
	require.EqualValues(t, 2, repo.products[2].Quantity)
}

func TestCreateSaleRejectsOversell(t *testing.T) {
	repo := newMemoryRepo()
	seedTwoProducts(repo)
	svc := NewService(repo)

	_, err := svc.CreateSale(context.Background(), CreateSaleInput{
		Number:        "0001",
		PaymentMethod: PaymentCash,
		Lines:         []Line{{ProductID: 2, Quantity: 3, UnitPrice: 20, Total: 60}},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	require.Empty(t, repo.sales)
	require.EqualValues(t, 2, repo.products[2].Quantity)
}

func TestCreateSaleEmptyLinesCommitsHeaderOnly(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	summary, err := svc.CreateSale(context.Background(), CreateSaleInput{
		Number:        "0001",
		PaymentMethod: PaymentPix,
	})
	require.NoError(t, err)
	require.InDelta(t, 0.0, summary.Total, 0.001)
	require.Len(t, repo.sales, 1)
	require.Empty(t, repo.items)
}

func TestCreateSaleDefaultsClient(t *testing.T) {
	repo := newMemoryRepo()
	seedTwoProducts(repo)
	svc := NewService(repo)

	_, err := svc.CreateSale(context.Background(), CreateSaleInput{
		Number:        "0001",
		Client:        "   ",
		PaymentMethod: PaymentCash,
		Lines:         []Line{{ProductID: 1, Quantity: 1, UnitPrice: 10, Total: 10}},
	})
	require.NoError(t, err)
	require.Equal(t, DefaultClient, repo.sales[0].Client)
}

func TestCreateSaleValidation(t *testing.T) {
	repo := newMemoryRepo()
	seedTwoProducts(repo)
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CreateSale(ctx, CreateSaleInput{
		Number:        "0001",
		PaymentMethod: "Check",
		Lines:         []Line{{ProductID: 1, Quantity: 1, UnitPrice: 10, Total: 10}},
	})
	require.ErrorIs(t, err, ErrInvalidPayment)

	_, err = svc.CreateSale(ctx, CreateSaleInput{
		Number:        "0001",
		PaymentMethod: PaymentCash,
		Lines:         []Line{{ProductID: 1, Quantity: 0, UnitPrice: 10, Total: 0}},
	})
	require.ErrorIs(t, err, ErrInvalidLine)

	_, err = svc.CreateSale(ctx, CreateSaleInput{
		Number:        "0001",
		PaymentMethod: PaymentCash,
		Lines:         []Line{{ProductID: 1, Quantity: 2, UnitPrice: 10, Total: 25}},
	})
	require.ErrorIs(t, err, ErrInvalidLine)

	_, err = svc.CreateSale(ctx, CreateSaleInput{
		Number:        "12AB",
		PaymentMethod: PaymentCash,
		Lines:         []Line{{ProductID: 1, Quantity: 1, UnitPrice: 10, Total: 10}},
	})
	require.ErrorIs(t, err, ErrInvalidNumber)

	// Validation failures never reach the store.
	require.Empty(t, repo.sales)
	require.Empty(t, repo.items)
}

func TestStockConservationAcrossSales(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(catalog.Product{ID: 1, Code: "A", Name: "Product A", Price: 10, Quantity: 10})
	svc := NewService(repo)
	ctx := context.Background()

	var sold int64
	for i := 0; i < 4; i++ {
		number, err := svc.NextNumber(ctx)
		require.NoError(t, err)
		_, err = svc.CreateSale(ctx, CreateSaleInput{
			Number:        number,
			PaymentMethod: PaymentCash,
			Lines:         []Line{{ProductID: 1, Quantity: 2, UnitPrice: 10, Total: 20}},
		})
		require.NoError(t, err)
		sold += 2
	}

	var itemSum int64
	for _, item := range repo.items {
		if item.ProductID == 1 {
			itemSum += item.Quantity
		}
	}
	require.Equal(t, sold, itemSum)
	require.EqualValues(t, 10-sold, repo.products[1].Quantity)
}

func TestCreateSaleWrappedStoreError(t *testing.T) {
	repo := newMemoryRepo()
	seedTwoProducts(repo)
	repo.failInsertItemAt = 1
	svc := NewService(repo)

	_, err := svc.CreateSale(context.Background(), CreateSaleInput{
		Number:        "0001",
		PaymentMethod: PaymentCash,
		Lines:         []Line{{ProductID: 1, Quantity: 1, UnitPrice: 10, Total: 10}},
	})
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrInsufficientStock))
}
