// Package scheduler содержит приложение фоновой проверки продлений подписок.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/finance-dashboard/internal/config"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/metrics"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/finance-dashboard/internal/rabbitmq"
	schedulerservice "github.com/magabrotheeeer/finance-dashboard/internal/services/scheduler"
	"github.com/magabrotheeeer/finance-dashboard/internal/storage"
)

const (
	dbReadyAttempts = 10
	dbReadyDelay    = 3 * time.Second
)

// App представляет приложение планировщика.
type App struct {
	service  *schedulerservice.Service
	metrics  *metrics.Metrics
	cronSpec string
	server   *http.Server
	db       *storage.Storage
	conn     *amqp.Connection
	ch       *amqp.Channel
	logger   *slog.Logger
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := storage.WaitReady(ctx, db, dbReadyAttempts, dbReadyDelay); err != nil {
		_ = db.Close()
		closeResources(ch, conn, logger)
		return nil, err
	}

	service := schedulerservice.New(
		db,
		rabbitmq.NewPublisher(ch),
		rabbitmq.RenewalAlerts.RoutingKey,
		cfg.AlertWindowDays,
		logger,
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &App{
		service:  service,
		metrics:  metrics.New(prometheus.DefaultRegisterer),
		cronSpec: cfg.CronSpec,
		server:   &http.Server{Addr: cfg.MetricsAddress, Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		db:       db,
		conn:     conn,
		ch:       ch,
		logger:   logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

// Run выполняет сканирование сразу и затем по расписанию до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	scan := func() {
		a.metrics.ObserveScan(a.service.Run(ctx))
	}

	c := cron.New()
	if _, err := c.AddFunc(a.cronSpec, scan); err != nil {
		closeResources(a.ch, a.conn, a.logger)
		_ = a.db.Close()
		return fmt.Errorf("invalid cron spec %q: %w", a.cronSpec, err)
	}

	go func() {
		a.logger.Info("metrics server starting on", slog.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", sl.Err(err))
		}
	}()

	scan()
	c.Start()
	a.logger.Info("scheduler started", slog.String("cron", a.cronSpec))

	<-ctx.Done()
	a.logger.Info("shutting down scheduler service")

	<-c.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("failed to stop metrics server", sl.Err(err))
	}

	closeResources(a.ch, a.conn, a.logger)
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
	return nil
}
