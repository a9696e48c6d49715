package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Arekyus/Sistema-comerciantes/internal/auth"
	"github.com/Arekyus/Sistema-comerciantes/internal/cashbook"
	"github.com/Arekyus/Sistema-comerciantes/internal/catalog"
	"github.com/Arekyus/Sistema-comerciantes/internal/observability"
	"github.com/Arekyus/Sistema-comerciantes/internal/sales"
	"github.com/Arekyus/Sistema-comerciantes/internal/settings"
	"github.com/Arekyus/Sistema-comerciantes/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	SessionManager  *shared.SessionManager
	CSRFManager     *shared.CSRFManager
	AuthHandler     *auth.Handler
	CatalogHandler  *catalog.Handler
	SalesHandler    *sales.Handler
	CashbookHandler *cashbook.Handler
	SettingsHandler *settings.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router for the merchant backend.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(RequireLogin)
		r.Route("/products", params.CatalogHandler.MountRoutes)
		r.Route("/sales", params.SalesHandler.MountRoutes)
		r.Route("/cashbook", params.CashbookHandler.MountRoutes)
		r.Route("/settings", params.SettingsHandler.MountRoutes)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
