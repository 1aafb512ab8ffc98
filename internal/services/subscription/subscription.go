// Package subscription содержит бизнес-логику подписок: CRUD, историю списаний,
// производные показатели и подсказки, с кешированием через внешний порт.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/finance-dashboard/internal/finance"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/datemath"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/finance-dashboard/internal/models"
)

const overviewPageSize = 100

// Repository определяет методы для работы с подписками в хранилище.
type Repository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	ReadSubscription(ctx context.Context, username string, id int) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	RemoveSubscription(ctx context.Context, username string, id int) (int, error)
	ListSubscriptions(ctx context.Context, username string, limit, offset int) ([]*models.Subscription, error)
	AddLedgerEntry(ctx context.Context, username string, entry models.SubscriptionLedgerEntry) (int, error)
	ListLedgerEntries(ctx context.Context, subscriptionID int) ([]models.SubscriptionLedgerEntry, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значения из кеша.
	Invalidate(ctx context.Context, keys ...string) error
}

// Service реализует бизнес-логику работы с подписками, включая кеширование.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
	ttl   time.Duration
	now   func() time.Time
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger, ttl time.Duration) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
		ttl:   ttl,
		now:   time.Now,
	}
}

func subscriptionKey(username string, id int) string {
	return fmt.Sprintf("subscription:%s:%d", username, id)
}

func detailsKey(username string, id int, day time.Time) string {
	return fmt.Sprintf("subscription:%s:%d:details:%s", username, id, datemath.Format(day))
}

func overviewKey(username string) string {
	return fmt.Sprintf("subscriptions:%s:overview", username)
}

func (s *Service) fromRequest(username string, req models.DummySubscription) (models.Subscription, error) {
	if req.CurrentCost.IsNegative() {
		return models.Subscription{}, fmt.Errorf("current cost must not be negative: %w", models.ErrInvalidInput)
	}

	sub := models.Subscription{
		Username:      username,
		ServiceName:   req.ServiceName,
		CurrentCost:   req.CurrentCost,
		BillingCycle:  finance.BillingCycle(req.BillingCycle),
		Status:        finance.SubscriptionStatus(req.Status),
		AutoPayActive: req.AutoPayActive,
	}
	if req.NextRenewalDate != "" {
		renewal, err := models.ParseDate(req.NextRenewalDate)
		if err != nil {
			return models.Subscription{}, fmt.Errorf("invalid next renewal date: %w", models.ErrInvalidInput)
		}
		sub.NextRenewalDate = &renewal
	}
	if !sub.BillingCycle.Known() {
		s.log.Warn("unknown billing cycle, costs are not normalized", slog.String("cycle", req.BillingCycle))
	}
	return sub, nil
}

// Create создает подписку пользователя и возвращает её ID.
func (s *Service) Create(ctx context.Context, username string, req models.DummySubscription) (int, error) {
	sub, err := s.fromRequest(username, req)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new subscription", slog.Int("id", id))

	s.invalidate(ctx, overviewKey(username))
	return id, nil
}

// Read возвращает подписку по ID, используя кеш или репозиторий.
func (s *Service) Read(ctx context.Context, username string, id int) (*models.Subscription, error) {
	var result *models.Subscription
	cacheKey := subscriptionKey(username, id)
	found, err := s.cache.Get(ctx, cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && result != nil {
		return result, nil
	}

	result, err = s.repo.ReadSubscription(ctx, username, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, result, s.ttl); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// Update обновляет подписку и сбрасывает связанные ключи кеша.
func (s *Service) Update(ctx context.Context, username string, id int, req models.DummySubscription) (int, error) {
	sub, err := s.fromRequest(username, req)
	if err != nil {
		return 0, err
	}
	sub.ID = id

	res, err := s.repo.UpdateSubscription(ctx, sub)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated subscription in storage", slog.Int("id", id))

	s.invalidate(ctx, subscriptionKey(username, id), detailsKey(username, id, s.now()), overviewKey(username))
	return res, nil
}

// Remove удаляет подписку и сбрасывает кеш после успешного удаления.
func (s *Service) Remove(ctx context.Context, username string, id int) (int, error) {
	res, err := s.repo.RemoveSubscription(ctx, username, id)
	if err != nil {
		return 0, err
	}

	s.invalidate(ctx, subscriptionKey(username, id), detailsKey(username, id, s.now()), overviewKey(username))
	return res, nil
}

// List возвращает подписки пользователя с пагинацией.
func (s *Service) List(ctx context.Context, username string, limit, offset int) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptions(ctx, username, limit, offset)
}

// AddLedgerEntry сохраняет списание по подписке.
func (s *Service) AddLedgerEntry(ctx context.Context, username string, subscriptionID int, req models.DummyLedgerEntry) (int, error) {
	if req.Amount.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative: %w", models.ErrInvalidInput)
	}
	paidAt, err := models.ParseDate(req.PaidAt)
	if err != nil {
		return 0, fmt.Errorf("invalid paid_at date: %w", models.ErrInvalidInput)
	}

	id, err := s.repo.AddLedgerEntry(ctx, username, models.SubscriptionLedgerEntry{
		SubscriptionID: subscriptionID,
		Amount:         req.Amount,
		PaidAt:         paidAt,
		Note:           req.Note,
	})
	if err != nil {
		return 0, err
	}

	s.invalidate(ctx, detailsKey(username, subscriptionID, s.now()))
	return id, nil
}

// Details возвращает подписку с тратами за всё время, нормированной стоимостью и подсказками.
// Подсказки зависят от текущей даты, поэтому ключ кеша включает день.
func (s *Service) Details(ctx context.Context, username string, id int) (*models.SubscriptionDetails, error) {
	today := s.now()
	cacheKey := detailsKey(username, id, today)

	var cached models.SubscriptionDetails
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	sub, err := s.Read(ctx, username, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListLedgerEntries(ctx, id)
	if err != nil {
		return nil, err
	}

	ledger := make([]finance.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		ledger = append(ledger, finance.LedgerEntry{Amount: e.Amount})
	}

	details := &models.SubscriptionDetails{
		Subscription:  sub,
		LifetimeSpend: finance.LifetimeSpend(ledger),
		MonthlyCost:   finance.AmortizedMonthlyCost(sub.CurrentCost, sub.BillingCycle).Round(2),
		YearlyCost:    finance.ProjectedYearlyCost(sub.CurrentCost, sub.BillingCycle),
		Insight:       finance.GetInsights(sub.Terms(), today),
	}

	if err := s.cache.Set(ctx, cacheKey, details, s.ttl); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return details, nil
}

// Overview возвращает сводку по всем подпискам пользователя.
func (s *Service) Overview(ctx context.Context, username string) (*finance.SubscriptionTotals, error) {
	cacheKey := overviewKey(username)

	var cached finance.SubscriptionTotals
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	var subs []finance.Subscription
	for offset := 0; ; offset += overviewPageSize {
		page, err := s.repo.ListSubscriptions(ctx, username, overviewPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, sub := range page {
			subs = append(subs, sub.Terms())
		}
		if len(page) < overviewPageSize {
			break
		}
	}

	totals := finance.SummarizeSubscriptions(subs)
	if err := s.cache.Set(ctx, cacheKey, totals, s.ttl); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return &totals, nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("failed to invalidate cache", slog.Any("keys", keys), sl.Err(err))
	}
}
