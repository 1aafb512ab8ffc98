package models

import (
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/finance-dashboard/internal/finance"
)

// DebtAccount — долговые отношения пользователя с одним контрагентом.
type DebtAccount struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Counterparty string `json:"counterparty"`
}

// DummyDebtAccount — счёт из JSON-запроса.
type DummyDebtAccount struct {
	Counterparty string `json:"counterparty" validate:"required"`
}

// DebtTransaction — операция по долговому счёту.
type DebtTransaction struct {
	ID          int                     `json:"id"`
	AccountID   int                     `json:"account_id"`
	Amount      decimal.Decimal         `json:"amount"`
	Type        finance.TransactionType `json:"type"`
	Status      string                  `json:"status,omitempty"`
	Description string                  `json:"description,omitempty"`
	OccurredAt  Date                    `json:"occurred_at"`
}

// Terms возвращает поля операции для расчёта итогов.
func (t DebtTransaction) Terms() finance.DebtTransaction {
	return finance.DebtTransaction{
		Amount:      t.Amount,
		Type:        t.Type,
		Status:      t.Status,
		Description: t.Description,
	}
}

// DummyDebtTransaction — операция из JSON-запроса.
type DummyDebtTransaction struct {
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type" validate:"required,oneof=GIVE GOT"`
	Status      string          `json:"status" validate:"omitempty"`
	Description string          `json:"description" validate:"omitempty,max=255"`
	OccurredAt  string          `json:"occurred_at" validate:"required"`
}

// DebtAccountSummary — счёт с итогами.
type DebtAccountSummary struct {
	Account *DebtAccount        `json:"account"`
	Summary finance.DebtSummary `json:"summary"`
}

// DebtDashboard — итоги по всем счетам пользователя.
type DebtDashboard struct {
	Accounts []DebtAccountSummary `json:"accounts"`
	Total    finance.DebtSummary  `json:"total"`
}
