package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/finance-dashboard/internal/lib/datemath"
)

// LoanTerms — условия кредита, по которым строится график.
type LoanTerms struct {
	StartDate    time.Time
	TenureMonths int
	EMIAmount    decimal.Decimal
	DueDateDay   int
}

// ScheduleEntry — один платёж графика.
// IsPaid вычисляется один раз при генерации и дальше не обновляется.
type ScheduleEntry struct {
	ID     string          `json:"id"`
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	IsPaid bool            `json:"is_paid"`
}

// LoanProgress — сводка по выплатам кредита.
type LoanProgress struct {
	TotalPayable     decimal.Decimal `json:"total_payable"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	Outstanding      decimal.Decimal `json:"outstanding"`
	PaidInstallments int             `json:"paid_installments"`
	NextDue          *ScheduleEntry  `json:"next_due,omitempty"`
}

// GenerateSchedule строит график из TenureMonths ежемесячных платежей.
// Платёж i приходится на месяц начала + i в день DueDateDay, ограниченный концом месяца.
func GenerateSchedule(terms LoanTerms, today time.Time) []ScheduleEntry {
	if terms.TenureMonths <= 0 {
		return []ScheduleEntry{}
	}

	dueDay := min(max(terms.DueDateDay, 1), 31)
	todayKey := datemath.Format(today)
	batch := uuid.NewString()

	schedule := make([]ScheduleEntry, 0, terms.TenureMonths)
	for i := range terms.TenureMonths {
		date := datemath.Format(datemath.AddMonthsClamped(terms.StartDate, i, dueDay))
		schedule = append(schedule, ScheduleEntry{
			ID:     fmt.Sprintf("%s-%d", batch, i+1),
			Date:   date,
			Amount: terms.EMIAmount,
			// строки YYYY-MM-DD сравниваются лексикографически так же, как даты
			IsPaid: date < todayKey,
		})
	}
	return schedule
}

// SummarizeLoan сопоставляет график с фактическими платежами.
// Остаток не уходит в минус при переплате.
func SummarizeLoan(schedule []ScheduleEntry, payments []Payment) LoanProgress {
	var progress LoanProgress

	for _, e := range schedule {
		progress.TotalPayable = progress.TotalPayable.Add(e.Amount)
		if e.IsPaid {
			progress.PaidInstallments++
			continue
		}
		if progress.NextDue == nil {
			next := e
			progress.NextDue = &next
		}
	}

	progress.TotalPaid = totalPaid(payments)
	progress.Outstanding = decimal.Max(progress.TotalPayable.Sub(progress.TotalPaid), decimal.Zero)
	return progress
}
