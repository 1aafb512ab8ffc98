// Package notifier содержит приложение, отправляющее письма о продлении подписок.
package notifier

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/finance-dashboard/internal/config"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/finance-dashboard/internal/rabbitmq"
	notifierservice "github.com/magabrotheeeer/finance-dashboard/internal/services/notifier"
)

// App читает очередь уведомлений и рассылает письма.
type App struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	service *notifierservice.Service
	logger  *slog.Logger
}

// New подключается к брокеру и настраивает почтовый транспорт.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &App{
		conn:    conn,
		ch:      ch,
		service: notifierservice.New(notifierservice.NewSMTPMailer(cfg.SMTP), logger),
		logger:  logger,
	}, nil
}

// Run обрабатывает очередь до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.Consume(ctx, a.ch, rabbitmq.RenewalAlerts.QueueName, a.logger, a.service.HandleRenewalNotice)
	if err != nil {
		a.logger.Error("failed to start renewal consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}
