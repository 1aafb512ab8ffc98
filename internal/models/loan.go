package models

import (
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/finance-dashboard/internal/finance"
)

// Loan — кредит пользователя.
type Loan struct {
	ID             int             `json:"id"`
	Username       string          `json:"username"`
	Lender         string          `json:"lender"`
	CreditedAmount decimal.Decimal `json:"credited_amount"`
	ProcessingFee  decimal.Decimal `json:"processing_fee"`
	StartDate      Date            `json:"start_date"`
	TenureMonths   int             `json:"tenure_months"`
	EMIAmount      decimal.Decimal `json:"emi_amount"`
	DueDateDay     int             `json:"due_date_day"`
}

// Terms возвращает условия кредита для построения графика.
func (l Loan) Terms() finance.LoanTerms {
	return finance.LoanTerms{
		StartDate:    l.StartDate.Time,
		TenureMonths: l.TenureMonths,
		EMIAmount:    l.EMIAmount,
		DueDateDay:   l.DueDateDay,
	}
}

// DummyLoan — кредит из JSON-запроса.
type DummyLoan struct {
	Lender         string          `json:"lender" validate:"required"`
	CreditedAmount decimal.Decimal `json:"credited_amount"`
	ProcessingFee  decimal.Decimal `json:"processing_fee"`
	StartDate      string          `json:"start_date" validate:"required"`
	TenureMonths   int             `json:"tenure_months" validate:"required,gt=0"`
	EMIAmount      decimal.Decimal `json:"emi_amount"`
	DueDateDay     int             `json:"due_date_day" validate:"required,min=1,max=31"`
}

// LoanPayment — фактический платёж по кредиту.
type LoanPayment struct {
	ID     int             `json:"id"`
	LoanID int             `json:"loan_id"`
	Amount decimal.Decimal `json:"amount"`
	PaidAt Date            `json:"paid_at"`
}

// DummyLoanPayment — платёж по кредиту из JSON-запроса.
type DummyLoanPayment struct {
	Amount decimal.Decimal `json:"amount"`
	PaidAt string          `json:"paid_at" validate:"required"`
}

// LoanDetails — кредит с графиком, прогрессом и оценкой ставки.
type LoanDetails struct {
	Loan     *Loan                   `json:"loan"`
	Schedule []finance.ScheduleEntry `json:"schedule"`
	Progress finance.LoanProgress    `json:"progress"`
	FlatRate decimal.Decimal         `json:"flat_rate"`
	Advice   finance.RateAdvice      `json:"advice"`
}
