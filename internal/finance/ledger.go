package finance

import "github.com/shopspring/decimal"

// TransactionType — направление движения по долговому счёту.
type TransactionType string

const (
	// TypeGive — деньги отданы контрагенту, он должен больше.
	TypeGive TransactionType = "GIVE"
	// TypeGot — деньги получены от контрагента.
	TypeGot TransactionType = "GOT"
)

const (
	settledStatus         = "Settled"
	settlementDescription = "Account Settlement"
)

// DebtTransaction — запись в долговом журнале.
type DebtTransaction struct {
	Amount      decimal.Decimal
	Type        TransactionType
	Status      string
	Description string
}

// DebtSummary — итоги по долговому счёту. NetBalance может быть отрицательным.
type DebtSummary struct {
	TotalGiven    decimal.Decimal `json:"total_given"`
	TotalTaken    decimal.Decimal `json:"total_taken"`
	SettledAmount decimal.Decimal `json:"settled_amount"`
	NetBalance    decimal.Decimal `json:"net_balance"`
}

// Add складывает две сводки.
func (s DebtSummary) Add(o DebtSummary) DebtSummary {
	return DebtSummary{
		TotalGiven:    s.TotalGiven.Add(o.TotalGiven),
		TotalTaken:    s.TotalTaken.Add(o.TotalTaken),
		SettledAmount: s.SettledAmount.Add(o.SettledAmount),
		NetBalance:    s.NetBalance.Add(o.NetBalance),
	}
}

func (t DebtTransaction) settled() bool {
	return t.Status == settledStatus || t.Description == settlementDescription
}

// SummarizeDebt сворачивает журнал в итоги. Закрывающие операции идут в SettledAmount
// и не попадают в TotalGiven/TotalTaken; в баланс входят все операции.
// Операции неизвестного типа пропускаются.
func SummarizeDebt(txs []DebtTransaction) DebtSummary {
	summary := DebtSummary{
		TotalGiven:    decimal.Zero,
		TotalTaken:    decimal.Zero,
		SettledAmount: decimal.Zero,
		NetBalance:    decimal.Zero,
	}

	for _, tx := range txs {
		switch tx.Type {
		case TypeGive:
			summary.NetBalance = summary.NetBalance.Add(tx.Amount)
			if tx.settled() {
				summary.SettledAmount = summary.SettledAmount.Add(tx.Amount)
			} else {
				summary.TotalGiven = summary.TotalGiven.Add(tx.Amount)
			}
		case TypeGot:
			summary.NetBalance = summary.NetBalance.Sub(tx.Amount)
			if tx.settled() {
				summary.SettledAmount = summary.SettledAmount.Add(tx.Amount)
			} else {
				summary.TotalTaken = summary.TotalTaken.Add(tx.Amount)
			}
		}
	}
	return summary
}
