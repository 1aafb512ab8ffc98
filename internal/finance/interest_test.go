package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func payments(n int, amount int64) []Payment {
	out := make([]Payment, n)
	for i := range out {
		out[i] = Payment{Amount: decimal.NewFromInt(amount)}
	}
	return out
}

func TestEstimateFlatRate(t *testing.T) {
	tests := []struct {
		name     string
		credited decimal.Decimal
		payments []Payment
		fee      decimal.Decimal
		want     string
	}{
		{
			name:     "one year of payments",
			credited: decimal.NewFromInt(100000),
			payments: payments(12, 10000),
			fee:      decimal.Zero,
			want:     "20",
		},
		{
			name:     "processing fee reduces principal",
			credited: decimal.NewFromInt(100000),
			payments: payments(12, 10000),
			fee:      decimal.NewFromInt(4000),
			want:     "25",
		},
		{
			name:     "half a year",
			credited: decimal.NewFromInt(60000),
			payments: payments(6, 10500),
			fee:      decimal.Zero,
			want:     "10",
		},
		{
			name:     "rounded to two places",
			credited: decimal.NewFromInt(30000),
			payments: payments(7, 4500),
			fee:      decimal.Zero,
			want:     "8.57",
		},
		{
			name:     "principal not positive",
			credited: decimal.NewFromInt(1000),
			payments: payments(12, 100),
			fee:      decimal.NewFromInt(1000),
			want:     "0",
		},
		{
			name:     "no payments",
			credited: decimal.NewFromInt(1000),
			payments: nil,
			fee:      decimal.Zero,
			want:     "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateFlatRate(tt.credited, tt.payments, tt.fee)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestAdviseRate(t *testing.T) {
	tests := []struct {
		rate string
		tier RateTier
		tone Tone
	}{
		{"0", RateExcellent, ToneSuccess},
		{"7.99", RateExcellent, ToneSuccess},
		{"8", RateGood, TonePrimary},
		{"11.99", RateGood, TonePrimary},
		{"12", RateFair, ToneWarning},
		{"15.5", RateFair, ToneWarning},
		{"16", RateExpensive, ToneDanger},
		{"42", RateExpensive, ToneDanger},
	}

	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			advice := AdviseRate(decimal.RequireFromString(tt.rate))
			assert.Equal(t, tt.tier, advice.Tier)
			assert.Equal(t, tt.tone, advice.Tone)
			assert.NotEmpty(t, advice.Message)
		})
	}
}
