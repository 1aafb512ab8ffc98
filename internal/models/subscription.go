package models

import (
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/finance-dashboard/internal/finance"
)

// Subscription — подписка пользователя в хранилище.
// NextRenewalDate может быть nil: дата продления неизвестна.
type Subscription struct {
	ID              int                        `json:"id"`
	Username        string                     `json:"username"`
	ServiceName     string                     `json:"service_name"`
	CurrentCost     decimal.Decimal            `json:"current_cost"`
	BillingCycle    finance.BillingCycle       `json:"billing_cycle"`
	NextRenewalDate *Date                      `json:"next_renewal_date,omitempty"`
	Status          finance.SubscriptionStatus `json:"status"`
	AutoPayActive   bool                       `json:"auto_pay_active"`
}

// Terms возвращает поля подписки, нужные расчётному ядру.
func (s Subscription) Terms() finance.Subscription {
	return finance.Subscription{
		CurrentCost:     s.CurrentCost,
		BillingCycle:    s.BillingCycle,
		NextRenewalDate: DatePtr(s.NextRenewalDate),
		Status:          s.Status,
		AutoPayActive:   s.AutoPayActive,
	}
}

// DummySubscription используется для приёма подписки из JSON-запроса.
// Дата продления приходит строкой в формате YYYY-MM-DD.
type DummySubscription struct {
	ServiceName     string          `json:"service_name" validate:"required"`
	CurrentCost     decimal.Decimal `json:"current_cost"`
	BillingCycle    string          `json:"billing_cycle" validate:"required"`
	NextRenewalDate string          `json:"next_renewal_date" validate:"omitempty"`
	Status          string          `json:"status" validate:"required"`
	AutoPayActive   bool            `json:"auto_pay_active"`
}

// SubscriptionLedgerEntry — списание по подписке.
type SubscriptionLedgerEntry struct {
	ID             int             `json:"id"`
	SubscriptionID int             `json:"subscription_id"`
	Amount         decimal.Decimal `json:"amount"`
	PaidAt         Date            `json:"paid_at"`
	Note           string          `json:"note,omitempty"`
}

// DummyLedgerEntry — списание из JSON-запроса.
type DummyLedgerEntry struct {
	Amount decimal.Decimal `json:"amount"`
	PaidAt string          `json:"paid_at" validate:"required"`
	Note   string          `json:"note" validate:"omitempty,max=255"`
}

// SubscriptionDetails — подписка вместе с производными показателями.
type SubscriptionDetails struct {
	Subscription  *Subscription   `json:"subscription"`
	LifetimeSpend decimal.Decimal `json:"lifetime_spend"`
	MonthlyCost   decimal.Decimal `json:"monthly_cost"`
	YearlyCost    decimal.Decimal `json:"yearly_cost"`
	Insight       finance.Insight `json:"insight"`
}

// RenewalNotice — предупреждение по подписке, отправляемое в очередь уведомлений.
type RenewalNotice struct {
	Email          string            `json:"email"`
	Username       string            `json:"username"`
	SubscriptionID int               `json:"subscription_id"`
	ServiceName    string            `json:"service_name"`
	RenewalDate    string            `json:"renewal_date"`
	AlertType      finance.AlertType `json:"alert_type"`
	Message        string            `json:"message"`
}

// SubscriptionOwner — подписка с электронной почтой владельца.
type SubscriptionOwner struct {
	Email        string
	Subscription Subscription
}
