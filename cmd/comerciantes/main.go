package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Arekyus/Sistema-comerciantes/internal/app"
	"github.com/Arekyus/Sistema-comerciantes/internal/auth"
	"github.com/Arekyus/Sistema-comerciantes/internal/cashbook"
	"github.com/Arekyus/Sistema-comerciantes/internal/catalog"
	"github.com/Arekyus/Sistema-comerciantes/internal/observability"
	"github.com/Arekyus/Sistema-comerciantes/internal/platform/cache"
	"github.com/Arekyus/Sistema-comerciantes/internal/platform/db"
	"github.com/Arekyus/Sistema-comerciantes/internal/sales"
	"github.com/Arekyus/Sistema-comerciantes/internal/settings"
	"github.com/Arekyus/Sistema-comerciantes/internal/shared"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// Schema failures are fatal: nothing works over a half-created store.
	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Error("ensure schema", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "comerciantes_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	authService, err := auth.NewService(cfg.MerchantUser, cfg.MerchantPassword)
	if err != nil {
		logger.Error("init auth", slog.Any("error", err))
		os.Exit(1)
	}
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	settingsStore := settings.NewStore(redisClient)
	settingsHandler := settings.NewHandler(logger, settingsStore)

	ledger := catalog.NewRepository(pool)
	catalogService := catalog.NewService(logger, ledger, settingsStore)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	salesRepo := sales.NewRepository(pool, ledger)
	salesService := sales.NewService(salesRepo)
	salesHandler := sales.NewHandler(logger, salesService, metrics)

	cashbookRepo := cashbook.NewRepository(pool)
	cashbookService := cashbook.NewService(cashbookRepo)
	cashbookHandler := cashbook.NewHandler(logger, cashbookService)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SessionManager:  sessionManager,
		CSRFManager:     csrfManager,
		AuthHandler:     authHandler,
		CatalogHandler:  catalogHandler,
		SalesHandler:    salesHandler,
		CashbookHandler: cashbookHandler,
		SettingsHandler: settingsHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
