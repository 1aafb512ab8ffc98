// Package dashboard собирает HTTP API дашборда: хранилище, кеш, сервисы и маршруты.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/finance-dashboard/internal/cache"
	"github.com/magabrotheeeer/finance-dashboard/internal/config"
	"github.com/magabrotheeeer/finance-dashboard/internal/http/handlers/health"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/jwt"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/metrics"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/finance-dashboard/internal/migrations"
	debtservice "github.com/magabrotheeeer/finance-dashboard/internal/services/debt"
	loanservice "github.com/magabrotheeeer/finance-dashboard/internal/services/loan"
	subservice "github.com/magabrotheeeer/finance-dashboard/internal/services/subscription"
	"github.com/magabrotheeeer/finance-dashboard/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App — HTTP-сервер дашборда.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
}

// New подключает зависимости, применяет миграции и настраивает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Services{
		Subscriptions: subservice.New(db, cacheRedis, logger, cfg.CacheTTL),
		Loans:         loanservice.New(db, logger),
		Debts:         debtservice.New(db, logger),
		Tokens:        jwt.NewParser(cfg.JWTSecretKey, cfg.Issuer),
		Users:         db,
		Health: map[string]health.Checker{
			"postgres": db,
			"redis":    cacheRedis,
		},
		Metrics:   metrics.New(prometheus.DefaultRegisterer),
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	})

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

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер.
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

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}

	if cerr := a.cache.Close(); cerr != nil {
		a.logger.Error("failed to close redis", sl.Err(cerr))
	}
	if cerr := a.db.Close(); cerr != nil {
		a.logger.Error("failed to close storage", sl.Err(cerr))
	}
	return err
}
