package sales

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Arekyus/Sistema-comerciantes/internal/catalog"
	"github.com/Arekyus/Sistema-comerciantes/internal/observability"
	"github.com/Arekyus/Sistema-comerciantes/internal/platform/httpx"
)

// Handler exposes sale recording over HTTP.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers the sales routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/next-number", h.NextNumber)
	r.Post("/", h.Create)
}

// NextNumber hands the caller the number for the sale it is about to draft.
func (h *Handler) NextNumber(w http.ResponseWriter, r *http.Request) {
	number, err := h.service.NextNumber(r.Context())
	if err != nil {
		h.logger.Error("allocate sale number", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"number": number})
}

type createSaleRequest struct {
	Number        string `json:"number" validate:"required,min=4,number"`
	Client        string `json:"client"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=PIX Card Cash"`
	Items         []struct {
		ProductID int64   `json:"product_id" validate:"required,gt=0"`
		Quantity  int64   `json:"quantity" validate:"required,gt=0"`
		UnitPrice float64 `json:"unit_price" validate:"gte=0"`
		Total     float64 `json:"total" validate:"gte=0"`
	} `json:"items" validate:"required,min=1,dive"`
}

// Create records one sale.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	input := CreateSaleInput{
		Number:        req.Number,
		Client:        req.Client,
		Phone:         req.Phone,
		PaymentMethod: PaymentMethod(req.PaymentMethod),
	}
	for _, item := range req.Items {
		input.Lines = append(input.Lines, Line{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
		})
	}

	summary, err := h.service.CreateSale(r.Context(), input)
	if err != nil {
		h.metrics.SaleFailed()
		h.respondError(w, err)
		return
	}
	h.metrics.SaleCommitted()
	httpx.JSON(w, http.StatusCreated, summary)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidPayment), errors.Is(err, ErrInvalidLine), errors.Is(err, ErrInvalidNumber):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		h.logger.Error("create sale", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
