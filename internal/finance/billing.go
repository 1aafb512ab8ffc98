package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingCycle — периодичность списаний по подписке.
// Неизвестные значения принимаются и обрабатываются как тождественные.
type BillingCycle string

// Поддерживаемые циклы оплаты.
const (
	CycleMonthly   BillingCycle = "Monthly"
	CycleQuarterly BillingCycle = "Quarterly"
	CycleYearly    BillingCycle = "Yearly"
)

// Known сообщает, есть ли для цикла формула пересчёта.
func (c BillingCycle) Known() bool {
	switch c {
	case CycleMonthly, CycleQuarterly, CycleYearly:
		return true
	default:
		return false
	}
}

// SubscriptionStatus — состояние подписки.
type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "Active"
	StatusFreeTrial SubscriptionStatus = "Free Trial"
	StatusPaused    SubscriptionStatus = "Paused"
	StatusCancelled SubscriptionStatus = "Cancelled"
)

// Subscription — поля подписки, нужные для расчётов.
type Subscription struct {
	CurrentCost     decimal.Decimal
	BillingCycle    BillingCycle
	NextRenewalDate *time.Time
	Status          SubscriptionStatus
	AutoPayActive   bool
}

// LedgerEntry — одно списание по подписке.
type LedgerEntry struct {
	Amount decimal.Decimal `json:"amount"`
}

// SubscriptionTotals — сводка по набору подписок.
type SubscriptionTotals struct {
	Count        int                        `json:"count"`
	ByStatus     map[SubscriptionStatus]int `json:"by_status"`
	MonthlyTotal decimal.Decimal            `json:"monthly_total"`
	YearlyTotal  decimal.Decimal            `json:"yearly_total"`
}

var (
	three = decimal.NewFromInt(3)
	four  = decimal.NewFromInt(4)
)

// ProjectedYearlyCost приводит стоимость за цикл к году.
func ProjectedYearlyCost(cost decimal.Decimal, cycle BillingCycle) decimal.Decimal {
	switch cycle {
	case CycleYearly:
		return cost
	case CycleMonthly:
		return cost.Mul(monthsInYear)
	case CycleQuarterly:
		return cost.Mul(four)
	default:
		return cost
	}
}

// AmortizedMonthlyCost приводит стоимость за цикл к месяцу.
func AmortizedMonthlyCost(cost decimal.Decimal, cycle BillingCycle) decimal.Decimal {
	switch cycle {
	case CycleMonthly:
		return cost
	case CycleYearly:
		return cost.Div(monthsInYear)
	case CycleQuarterly:
		return cost.Div(three)
	default:
		return cost
	}
}

// LifetimeSpend суммирует все списания; для пустой истории возвращает 0.
func LifetimeSpend(ledger []LedgerEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range ledger {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// SummarizeSubscriptions считает подписки по статусам и нормированные
// месячные и годовые расходы. В суммы попадают только активные подписки.
func SummarizeSubscriptions(subs []Subscription) SubscriptionTotals {
	totals := SubscriptionTotals{
		Count:        len(subs),
		ByStatus:     make(map[SubscriptionStatus]int),
		MonthlyTotal: decimal.Zero,
		YearlyTotal:  decimal.Zero,
	}
	for _, s := range subs {
		totals.ByStatus[s.Status]++
		if s.Status != StatusActive {
			continue
		}
		totals.MonthlyTotal = totals.MonthlyTotal.Add(AmortizedMonthlyCost(s.CurrentCost, s.BillingCycle))
		totals.YearlyTotal = totals.YearlyTotal.Add(ProjectedYearlyCost(s.CurrentCost, s.BillingCycle))
	}
	totals.MonthlyTotal = totals.MonthlyTotal.Round(2)
	return totals
}
