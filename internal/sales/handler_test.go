package sales

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Arekyus/Sistema-comerciantes/internal/observability"
)

func newTestHandler(repo *memoryRepo) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(repo), observability.NewMetrics())
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func TestNextNumberEndpoint(t *testing.T) {
	router := newTestHandler(newMemoryRepo())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/next-number", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"number":"0001"`)
}

func TestCreateEndpoint(t *testing.T) {
	repo := newMemoryRepo()
	seedTwoProducts(repo)
	router := newTestHandler(repo)

	body := `{
		"number": "0001",
		"client": "Maria",
		"payment_method": "Cash",
		"items": [
			{"product_id": 1, "quantity": 2, "unit_price": 10, "total": 20},
			{"product_id": 2, "quantity": 1, "unit_price": 20, "total": 20}
		]
	}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"number":"0001"`)
	require.Contains(t, rec.Body.String(), `"total":40`)
	require.EqualValues(t, 3, repo.products[1].Quantity)
	require.EqualValues(t, 1, repo.products[2].Quantity)
}

func TestCreateEndpointAcceptsNumbersBeyondFourDigits(t *testing.T) {
	repo := newMemoryRepo()
	seedTwoProducts(repo)
	repo.sales = append(repo.sales, Sale{ID: 1, Number: "9999"})
	router := newTestHandler(repo)

	// The allocator pads to a minimum of four digits and grows past it.
	number, err := NewService(repo).NextNumber(context.Background())
	require.NoError(t, err)
	require.Equal(t, "10000", number)

	body := `{"number":"10000","payment_method":"Cash","items":[{"product_id":1,"quantity":1,"unit_price":10,"total":10}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"number":"10000"`)
}

func TestCreateEndpointValidation(t *testing.T) {
	repo := newMemoryRepo()
	seedTwoProducts(repo)
	router := newTestHandler(repo)

	cases := map[string]string{
		"not json":       `{`,
		"no items":       `{"number":"0001","payment_method":"Cash","items":[]}`,
		"bad payment":    `{"number":"0001","payment_method":"Check","items":[{"product_id":1,"quantity":1,"unit_price":10,"total":10}]}`,
		"bad number":     `{"number":"1","payment_method":"Cash","items":[{"product_id":1,"quantity":1,"unit_price":10,"total":10}]}`,
		"zero quantity":  `{"number":"0001","payment_method":"Cash","items":[{"product_id":1,"quantity":0,"unit_price":10,"total":0}]}`,
		"total mismatch": `{"number":"0001","payment_method":"Cash","items":[{"product_id":1,"quantity":2,"unit_price":10,"total":25}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	require.Empty(t, repo.sales)
}

func TestCreateEndpointInsufficientStock(t *testing.T) {
	repo := newMemoryRepo()
	seedTwoProducts(repo)
	router := newTestHandler(repo)

	body := `{"number":"0001","payment_method":"Cash","items":[{"product_id":2,"quantity":5,"unit_price":20,"total":100}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	require.Equal(t, http.StatusConflict, rec.Code)
	require.EqualValues(t, 2, repo.products[2].Quantity)
}

func TestCreateEndpointUnknownProduct(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestHandler(repo)

	body := `{"number":"0001","payment_method":"PIX","items":[{"product_id":42,"quantity":1,"unit_price":5,"total":5}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, repo.sales)
}
