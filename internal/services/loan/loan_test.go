package loan

import (
	"context"
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

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateLoan(ctx context.Context, loan models.Loan) (int, error) {
	args := m.Called(ctx, loan)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadLoan(ctx context.Context, username string, id int) (*models.Loan, error) {
	args := m.Called(ctx, username, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}
func (m *RepoMock) ListLoans(ctx context.Context, username string) ([]*models.Loan, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Loan), args.Error(1)
}
func (m *RepoMock) RemoveLoan(ctx context.Context, username string, id int) (int, error) {
	args := m.Called(ctx, username, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) AddLoanPayment(ctx context.Context, username string, payment models.LoanPayment) (int, error) {
	args := m.Called(ctx, username, payment)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListLoanPayments(ctx context.Context, loanID int) ([]models.LoanPayment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LoanPayment), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService(r *RepoMock, now time.Time) *Service {
	s := New(r, newNoopLogger())
	s.now = func() time.Time { return now }
	return s
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name    string
		req     models.DummyLoan
		wantErr error
	}{
		{
			name: "success",
			req: models.DummyLoan{
				Lender:         "Bank",
				CreditedAmount: decimal.NewFromInt(1000),
				EMIAmount:      decimal.NewFromInt(100),
				StartDate:      "2026-01-31",
				TenureMonths:   12,
				DueDateDay:     31,
			},
		},
		{
			name:    "bad start date",
			req:     models.DummyLoan{Lender: "Bank", StartDate: "31/01/2026", TenureMonths: 12, DueDateDay: 5},
			wantErr: models.ErrInvalidInput,
		},
		{
			name: "negative fee",
			req: models.DummyLoan{
				Lender:        "Bank",
				ProcessingFee: decimal.NewFromInt(-5),
				StartDate:     "2026-01-31",
				TenureMonths:  12,
				DueDateDay:    5,
			},
			wantErr: models.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := new(RepoMock)
			r.On("CreateLoan", mock.Anything, mock.MatchedBy(func(l models.Loan) bool {
				return l.Username == "alice" && l.StartDate.Equal(time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC))
			})).Return(3, nil).Maybe()

			id, err := newTestService(r, time.Now()).Create(context.Background(), "alice", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				r.AssertNotCalled(t, "CreateLoan", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 3, id)
		})
	}
}

func TestService_AddPayment(t *testing.T) {
	r := new(RepoMock)
	r.On("AddLoanPayment", mock.Anything, "alice", mock.MatchedBy(func(p models.LoanPayment) bool {
		return p.LoanID == 4 && p.Amount.Equal(decimal.NewFromInt(100))
	})).Return(9, nil).Once()
	s := newTestService(r, time.Now())

	id, err := s.AddPayment(context.Background(), "alice", 4, models.DummyLoanPayment{Amount: decimal.NewFromInt(100), PaidAt: "2026-02-01"})
	require.NoError(t, err)
	assert.Equal(t, 9, id)

	_, err = s.AddPayment(context.Background(), "alice", 4, models.DummyLoanPayment{Amount: decimal.Zero, PaidAt: "2026-02-01"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	r.AssertExpectations(t)
}

func TestService_Schedule(t *testing.T) {
	r := new(RepoMock)
	r.On("ReadLoan", mock.Anything, "alice", 1).Return(&models.Loan{
		ID:           1,
		StartDate:    models.NewDate(time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)),
		TenureMonths: 3,
		EMIAmount:    decimal.NewFromInt(100),
		DueDateDay:   31,
	}, nil).Once()

	got, err := newTestService(r, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)).Schedule(context.Background(), "alice", 1)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"2026-01-31", "2026-02-28", "2026-03-31"}, []string{got[0].Date, got[1].Date, got[2].Date})
	assert.True(t, got[0].IsPaid)
	assert.True(t, got[1].IsPaid)
	assert.False(t, got[2].IsPaid)
}

func TestService_Schedule_NotFound(t *testing.T) {
	r := new(RepoMock)
	r.On("ReadLoan", mock.Anything, "bob", 1).Return(nil, models.ErrNotFound).Once()

	_, err := newTestService(r, time.Now()).Schedule(context.Background(), "bob", 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestService_Details(t *testing.T) {
	r := new(RepoMock)
	r.On("ReadLoan", mock.Anything, "alice", 2).Return(&models.Loan{
		ID:             2,
		CreditedAmount: decimal.NewFromInt(1000),
		StartDate:      models.NewDate(time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)),
		TenureMonths:   12,
		EMIAmount:      decimal.NewFromInt(100),
		DueDateDay:     10,
	}, nil).Once()
	r.On("ListLoanPayments", mock.Anything, 2).Return([]models.LoanPayment{
		{Amount: decimal.NewFromInt(100)},
		{Amount: decimal.NewFromInt(100)},
	}, nil).Once()

	got, err := newTestService(r, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)).Details(context.Background(), "alice", 2)
	require.NoError(t, err)

	assert.Len(t, got.Schedule, 12)
	assert.Equal(t, "20.00", got.FlatRate.StringFixed(2))
	assert.Equal(t, finance.RateExpensive, got.Advice.Tier)
	assert.Equal(t, 2, got.Progress.PaidInstallments)
	assert.Equal(t, "1200.00", got.Progress.TotalPayable.StringFixed(2))
	assert.Equal(t, "1000.00", got.Progress.Outstanding.StringFixed(2))
	require.NotNil(t, got.Progress.NextDue)
	assert.Equal(t, "2025-06-10", got.Progress.NextDue.Date)
}
