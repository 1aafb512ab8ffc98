// Package scheduler ищет подписки с близким продлением и публикует
// предупреждения в очередь уведомлений.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/finance-dashboard/internal/finance"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/datemath"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/finance-dashboard/internal/models"
)

// SubscriptionRepository возвращает подписки, продлевающиеся в заданном окне.
type SubscriptionRepository interface {
	FindRenewingSubscriptions(ctx context.Context, from time.Time, windowDays int) ([]models.SubscriptionOwner, error)
}

// Publisher отправляет сообщение в брокер.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service сканирует подписки и публикует RenewalNotice по каждому предупреждению.
type Service struct {
	repo       SubscriptionRepository
	publisher  Publisher
	routingKey string
	windowDays int
	log        *slog.Logger
	now        func() time.Time
}

// New создает новый экземпляр Service.
func New(repo SubscriptionRepository, publisher Publisher, routingKey string, windowDays int, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		publisher:  publisher,
		routingKey: routingKey,
		windowDays: windowDays,
		log:        log,
		now:        time.Now,
	}
}

// Run выполняет одно сканирование и возвращает число опубликованных уведомлений.
// Ошибки публикации отдельных сообщений логируются и не прерывают обход.
func (s *Service) Run(ctx context.Context) (int, error) {
	today := datemath.Midnight(s.now())
	log := s.log.With(slog.String("op", "scheduler.Run"), slog.String("date", datemath.Format(today)))

	log.Info("starting renewal scan")
	owners, err := s.repo.FindRenewingSubscriptions(ctx, today, s.windowDays)
	if err != nil {
		log.Error("failed to find renewing subscriptions", sl.Err(err))
		return 0, err
	}
	if len(owners) == 0 {
		log.Info("no renewing subscriptions found")
		return 0, nil
	}
	log.Info("found renewing subscriptions", slog.Int("count", len(owners)))

	published := 0
	for _, owner := range owners {
		for _, notice := range noticesFor(owner, today) {
			if err := s.publisher.Publish(s.routingKey, notice); err != nil {
				log.Error("failed to publish message", slog.Int("subscription_id", notice.SubscriptionID), sl.Err(err))
				continue
			}
			published++
		}
	}
	log.Info("renewal scan finished", slog.Int("published", published))
	return published, nil
}

func noticesFor(owner models.SubscriptionOwner, today time.Time) []models.RenewalNotice {
	sub := owner.Subscription
	insight := finance.GetInsights(sub.Terms(), today)

	var renewal string
	if sub.NextRenewalDate != nil {
		renewal = sub.NextRenewalDate.String()
	}

	notices := make([]models.RenewalNotice, 0, len(insight.Alerts))
	for _, alert := range insight.Alerts {
		notices = append(notices, models.RenewalNotice{
			Email:          owner.Email,
			Username:       sub.Username,
			SubscriptionID: sub.ID,
			ServiceName:    sub.ServiceName,
			RenewalDate:    renewal,
			AlertType:      alert.Type,
			Message:        alert.Message,
		})
	}
	return notices
}
