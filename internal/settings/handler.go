package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Arekyus/Sistema-comerciantes/internal/platform/httpx"
)

// Handler exposes merchant settings over HTTP.
type Handler struct {
	logger    *slog.Logger
	store     *Store
	validator *validator.Validate
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, store *Store) *Handler {
	return &Handler{logger: logger, store: store, validator: validator.New()}
}

// MountRoutes registers the settings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/min-stock", h.GetMinStock)
	r.Put("/min-stock", h.PutMinStock)
}

func (h *Handler) GetMinStock(w http.ResponseWriter, r *http.Request) {
	threshold, err := h.store.MinStock(r.Context())
	if err != nil {
		h.logger.Error("get min stock", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"min_stock": threshold})
}

type putMinStockRequest struct {
	MinStock int64 `json:"min_stock" validate:"gte=0"`
}

func (h *Handler) PutMinStock(w http.ResponseWriter, r *http.Request) {
	var req putMinStockRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.store.SetMinStock(r.Context(), req.MinStock); err != nil {
		h.logger.Error("set min stock", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"min_stock": req.MinStock})
}
