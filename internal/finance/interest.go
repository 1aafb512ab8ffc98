package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment — фактически внесённый платёж по кредиту.
type Payment struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// RateTier — категория оценки ставки.
type RateTier string

// Категории ставок в порядке проверки.
const (
	RateExcellent RateTier = "excellent"
	RateGood      RateTier = "good"
	RateFair      RateTier = "fair"
	RateExpensive RateTier = "expensive"
)

// Tone — семантический цвет подсказки; отображение решает клиент.
type Tone string

const (
	ToneSuccess Tone = "success"
	TonePrimary Tone = "primary"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
)

// RateAdvice — подсказка по оценённой ставке.
type RateAdvice struct {
	Tier    RateTier `json:"tier"`
	Message string   `json:"message"`
	Tone    Tone     `json:"tone"`
}

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

var rateAdvice = []struct {
	below  decimal.Decimal
	advice RateAdvice
}{
	{decimal.NewFromInt(8), RateAdvice{RateExcellent, "Excellent rate. Keep paying on schedule.", ToneSuccess}},
	{decimal.NewFromInt(12), RateAdvice{RateGood, "Good rate, in line with typical personal loans.", TonePrimary}},
	{decimal.NewFromInt(16), RateAdvice{RateFair, "Fair rate. Prepaying part of the principal would reduce the cost.", ToneWarning}},
}

var expensiveAdvice = RateAdvice{RateExpensive, "Expensive loan. Consider refinancing or prepaying it first.", ToneDanger}

// EstimateFlatRate оценивает годовую плоскую (без капитализации) ставку в процентах
// по сумме зачисления, комиссии и фактическим платежам. Это приближение для отображения,
// а не IRR: результат нельзя сравнивать с эффективной ставкой.
// При неположительном теле кредита или отсутствии платежей возвращает 0.
func EstimateFlatRate(creditedAmount decimal.Decimal, payments []Payment, processingFee decimal.Decimal) decimal.Decimal {
	principal := creditedAmount.Sub(processingFee)
	if !principal.IsPositive() {
		return decimal.Zero
	}

	months := decimal.NewFromInt(int64(len(payments)))
	if !months.IsPositive() {
		return decimal.Zero
	}

	// (interest / principal) / (months / 12) * 100, без промежуточного деления на 12
	interest := totalPaid(payments).Sub(principal)
	return interest.Mul(monthsInYear).Mul(hundred).Div(principal.Mul(months)).Round(2)
}

// AdviseRate подбирает подсказку для ставки: первая подходящая категория выигрывает.
func AdviseRate(rate decimal.Decimal) RateAdvice {
	for _, tier := range rateAdvice {
		if rate.LessThan(tier.below) {
			return tier.advice
		}
	}
	return expensiveAdvice
}

func totalPaid(payments []Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}
