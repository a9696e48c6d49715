package cashbook

import (
	"encoding/csv"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Arekyus/Sistema-comerciantes/internal/platform/httpx"
	"github.com/Arekyus/Sistema-comerciantes/internal/sales"
)

const dateLayout = "2006-01-02"

// Handler exposes the cash book over HTTP. Read-only.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the cash-book routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/sales", h.ListSales)
	r.Get("/sales/{id}", h.SaleDetails)
	r.Get("/summary", h.Summary)
	r.Get("/summary.csv", h.SummaryCSV)
}

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListSales(r.Context())
	if err != nil {
		h.logger.Error("list sales", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"sales": list})
}

func (h *Handler) SaleDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid sale id")
		return
	}
	detail, err := h.service.SaleDetails(r.Context(), id)
	if err != nil {
		if errors.Is(err, sales.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("sale details", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rows, err := h.service.Summary(r.Context(), from, to)
	if err != nil {
		h.logger.Error("cash summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"summary": rows})
}

func (h *Handler) SummaryCSV(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rows, err := h.service.Summary(r.Context(), from, to)
	if err != nil {
		h.logger.Error("cash summary csv", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cashbook.csv"`)
	cw := csv.NewWriter(w)
	// Machine-readable total first, display string last.
	records := [][]string{{"date", "payment_method", "sales_count", "total", "total_formatted"}}
	for _, row := range rows {
		records = append(records, []string{
			row.Date,
			row.PaymentMethod,
			strconv.FormatInt(row.SalesCount, 10),
			strconv.FormatFloat(row.Total, 'f', 2, 64),
			row.TotalFormatted,
		})
	}
	if err := cw.WriteAll(records); err != nil {
		// Headers are out already; the truncated download is all the client
		// sees, so record the failure server-side.
		h.logger.Error("write summary csv", slog.Any("error", err))
	}
}

func parseRange(r *http.Request) (time.Time, time.Time, error) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var err error
	if fromStr != "" {
		if from, err = time.Parse(dateLayout, fromStr); err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid from date, expected YYYY-MM-DD")
		}
	}
	if toStr != "" {
		if to, err = time.Parse(dateLayout, toStr); err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid to date, expected YYYY-MM-DD")
		}
	}
	return from, to, nil
}
