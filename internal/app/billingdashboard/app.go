package billingdashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/billing-dashboard/internal/cache"
	"github.com/magabrotheeeer/billing-dashboard/internal/config"
	"github.com/magabrotheeeer/billing-dashboard/internal/lib/jwt"
	"github.com/magabrotheeeer/billing-dashboard/internal/migrations"
	authservice "github.com/magabrotheeeer/billing-dashboard/internal/services/auth"
	dashboardservice "github.com/magabrotheeeer/billing-dashboard/internal/services/dashboard"
	expenseservice "github.com/magabrotheeeer/billing-dashboard/internal/services/expense"
	subscriberservice "github.com/magabrotheeeer/billing-dashboard/internal/services/subscriber"
	"github.com/magabrotheeeer/billing-dashboard/internal/storage"
)

// App инкапсулирует HTTP-сервер панели и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
}

// New собирает приложение панели: хранилище, миграции, кеш, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, maker, logger)
	subscriberService := subscriberservice.New(db, cacheRedis, logger)
	expenseService := expenseservice.New(db, cacheRedis, logger)
	dashboardService := dashboardservice.New(db, db, cacheRedis, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, maker, authService, subscriberService, expenseService, dashboardService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", slog.Any("err", closeErr))
		}
		return err
	}
}
