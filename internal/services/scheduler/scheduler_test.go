package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/finance-dashboard/internal/finance"
	"github.com/magabrotheeeer/finance-dashboard/internal/models"
)

type MockRepository struct{ mock.Mock }

func (m *MockRepository) FindRenewingSubscriptions(ctx context.Context, from time.Time, windowDays int) ([]models.SubscriptionOwner, error) {
	args := m.Called(ctx, from, windowDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SubscriptionOwner), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var today = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

func newTestService(r *MockRepository, p *MockPublisher) *Service {
	s := New(r, p, "renewal", 14, newNoopLogger())
	s.now = func() time.Time { return today.Add(15 * time.Hour) }
	return s
}

func owner(id int, status finance.SubscriptionStatus, cycle finance.BillingCycle, autoPay bool, inDays int) models.SubscriptionOwner {
	renewal := models.NewDate(today.AddDate(0, 0, inDays))
	return models.SubscriptionOwner{
		Email: "alice@example.com",
		Subscription: models.Subscription{
			ID:              id,
			Username:        "alice",
			ServiceName:     "Service",
			CurrentCost:     decimal.NewFromInt(100),
			BillingCycle:    cycle,
			NextRenewalDate: &renewal,
			Status:          status,
			AutoPayActive:   autoPay,
		},
	}
}

func TestService_Run(t *testing.T) {
	r, p := new(MockRepository), new(MockPublisher)
	r.On("FindRenewingSubscriptions", mock.Anything, today, 14).Return([]models.SubscriptionOwner{
		owner(1, finance.StatusFreeTrial, finance.CycleYearly, true, 2),
		owner(2, finance.StatusActive, finance.CycleMonthly, true, 5),
		owner(3, finance.StatusActive, finance.CycleYearly, true, 10),
	}, nil).Once()

	var got []models.RenewalNotice
	p.On("Publish", "renewal", mock.AnythingOfType("models.RenewalNotice")).
		Run(func(args mock.Arguments) {
			got = append(got, args.Get(1).(models.RenewalNotice))
		}).Return(nil)

	n, err := newTestService(r, p).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].SubscriptionID)
	assert.Equal(t, finance.AlertCritical, got[0].AlertType)
	assert.Equal(t, 1, got[1].SubscriptionID)
	assert.Equal(t, finance.AlertWarning, got[1].AlertType)
	assert.Equal(t, 3, got[2].SubscriptionID)
	assert.Equal(t, "2026-03-20", got[2].RenewalDate)
	assert.Equal(t, "alice@example.com", got[2].Email)
}

func TestService_Run_PublishErrorContinues(t *testing.T) {
	r, p := new(MockRepository), new(MockPublisher)
	r.On("FindRenewingSubscriptions", mock.Anything, today, 14).Return([]models.SubscriptionOwner{
		owner(1, finance.StatusActive, finance.CycleYearly, true, 1),
		owner(2, finance.StatusActive, finance.CycleYearly, true, 3),
	}, nil).Once()
	p.On("Publish", "renewal", mock.MatchedBy(func(n models.RenewalNotice) bool { return n.SubscriptionID == 1 })).
		Return(errors.New("channel closed")).Once()
	p.On("Publish", "renewal", mock.MatchedBy(func(n models.RenewalNotice) bool { return n.SubscriptionID == 2 })).
		Return(nil).Once()

	n, err := newTestService(r, p).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	p.AssertExpectations(t)
}

func TestService_Run_RepositoryError(t *testing.T) {
	r, p := new(MockRepository), new(MockPublisher)
	r.On("FindRenewingSubscriptions", mock.Anything, today, 14).Return(nil, errors.New("db down")).Once()

	_, err := newTestService(r, p).Run(context.Background())
	assert.Error(t, err)
	p.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestService_Run_NothingToNotify(t *testing.T) {
	r, p := new(MockRepository), new(MockPublisher)
	r.On("FindRenewingSubscriptions", mock.Anything, today, 14).Return([]models.SubscriptionOwner{}, nil).Once()

	n, err := newTestService(r, p).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
