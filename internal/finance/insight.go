package finance

import (
	"fmt"
	"time"

	"github.com/magabrotheeeer/finance-dashboard/internal/lib/datemath"
)

// AlertType — важность подсказки.
type AlertType string

const (
	AlertCritical AlertType = "CRITICAL"
	AlertWarning  AlertType = "WARNING"
)

const (
	trialWindowDays   = 3
	renewalWindowDays = 14
)

// Alert — одно предупреждение по подписке.
type Alert struct {
	Type    AlertType `json:"type"`
	Message string    `json:"message"`
}

// Insight — предупреждения и бейдж годовой стоимости. Пересчитывается при каждом вызове.
type Insight struct {
	Alerts []Alert `json:"alerts"`
	Badge  string  `json:"badge"`
}

// GetInsights проверяет правила независимо друг от друга: предупреждения могут совпадать.
// Подписка без даты продления предупреждений о сроках не получает.
func GetInsights(sub Subscription, today time.Time) Insight {
	insight := Insight{Alerts: []Alert{}}

	days, ok := datemath.DaysUntilDue(sub.NextRenewalDate, today)

	if ok && sub.Status == StatusFreeTrial && days >= 0 && days < trialWindowDays {
		insight.Alerts = append(insight.Alerts, Alert{
			Type:    AlertCritical,
			Message: fmt.Sprintf("Free trial ends in %s. Cancel now if you do not want to be charged.", pluralDays(days)),
		})
	}

	if ok && sub.BillingCycle == CycleYearly && sub.AutoPayActive && days >= 0 && days < renewalWindowDays {
		insight.Alerts = append(insight.Alerts, Alert{
			Type:    AlertWarning,
			Message: fmt.Sprintf("Yearly auto-payment in %s. Review the subscription before payment.", pluralDays(days)),
		})
	}

	insight.Badge = fmt.Sprintf("%s / year", ProjectedYearlyCost(sub.CurrentCost, sub.BillingCycle).StringFixed(2))
	return insight
}

func pluralDays(days int) string {
	switch days {
	case 0:
		return "less than a day"
	case 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}
