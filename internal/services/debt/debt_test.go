package debt

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/finance-dashboard/internal/finance"
	"github.com/magabrotheeeer/finance-dashboard/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateDebtAccount(ctx context.Context, account models.DebtAccount) (int, error) {
	args := m.Called(ctx, account)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadDebtAccount(ctx context.Context, username string, id int) (*models.DebtAccount, error) {
	args := m.Called(ctx, username, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DebtAccount), args.Error(1)
}
func (m *RepoMock) ListDebtAccounts(ctx context.Context, username string) ([]*models.DebtAccount, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DebtAccount), args.Error(1)
}
func (m *RepoMock) AddDebtTransaction(ctx context.Context, username string, tx models.DebtTransaction) (int, error) {
	args := m.Called(ctx, username, tx)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListDebtTransactions(ctx context.Context, accountID int) ([]models.DebtTransaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DebtTransaction), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func tx(amount int64, typ finance.TransactionType, status, description string) models.DebtTransaction {
	return models.DebtTransaction{Amount: decimal.NewFromInt(amount), Type: typ, Status: status, Description: description}
}

func TestService_AccountSummary(t *testing.T) {
	r := new(RepoMock)
	r.On("ReadDebtAccount", mock.Anything, "alice", 1).Return(&models.DebtAccount{ID: 1, Counterparty: "Bob"}, nil).Once()
	r.On("ListDebtTransactions", mock.Anything, 1).Return([]models.DebtTransaction{
		tx(500, finance.TypeGive, "", ""),
		tx(200, finance.TypeGot, "", ""),
		tx(300, finance.TypeGive, "Settled", ""),
	}, nil).Once()

	got, err := New(r, newNoopLogger()).AccountSummary(context.Background(), "alice", 1)
	require.NoError(t, err)

	assert.Equal(t, "Bob", got.Account.Counterparty)
	assert.Equal(t, "500", got.Summary.TotalGiven.String())
	assert.Equal(t, "200", got.Summary.TotalTaken.String())
	assert.Equal(t, "300", got.Summary.SettledAmount.String())
	assert.Equal(t, "600", got.Summary.NetBalance.String())
}

func TestService_AccountSummary_ForeignAccount(t *testing.T) {
	r := new(RepoMock)
	r.On("ReadDebtAccount", mock.Anything, "mallory", 1).Return(nil, models.ErrNotFound).Once()

	_, err := New(r, newNoopLogger()).AccountSummary(context.Background(), "mallory", 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
	r.AssertNotCalled(t, "ListDebtTransactions", mock.Anything, mock.Anything)
}

func TestService_Dashboard(t *testing.T) {
	r := new(RepoMock)
	accounts := []*models.DebtAccount{{ID: 1, Counterparty: "Bob"}, {ID: 2, Counterparty: "Carol"}, {ID: 3, Counterparty: "Dave"}}
	r.On("ListDebtAccounts", mock.Anything, "alice").Return(accounts, nil).Once()
	r.On("ListDebtTransactions", mock.Anything, 1).Return([]models.DebtTransaction{tx(100, finance.TypeGive, "", "")}, nil).Once()
	r.On("ListDebtTransactions", mock.Anything, 2).Return([]models.DebtTransaction{tx(40, finance.TypeGot, "", "")}, nil).Once()
	r.On("ListDebtTransactions", mock.Anything, 3).Return([]models.DebtTransaction{
		tx(70, finance.TypeGive, "", "Account Settlement"),
		tx(10, "LOAN", "", ""),
	}, nil).Once()

	got, err := New(r, newNoopLogger()).Dashboard(context.Background(), "alice")
	require.NoError(t, err)

	require.Len(t, got.Accounts, 3)
	for i, a := range got.Accounts {
		assert.Equal(t, accounts[i].ID, a.Account.ID)
	}
	assert.Equal(t, "100", got.Total.TotalGiven.String())
	assert.Equal(t, "40", got.Total.TotalTaken.String())
	assert.Equal(t, "70", got.Total.SettledAmount.String())
	assert.Equal(t, "130", got.Total.NetBalance.String())
	r.AssertExpectations(t)
}

func TestService_Dashboard_Error(t *testing.T) {
	r := new(RepoMock)
	r.On("ListDebtAccounts", mock.Anything, "alice").Return([]*models.DebtAccount{{ID: 1}, {ID: 2}}, nil).Once()
	r.On("ListDebtTransactions", mock.Anything, 1).Return([]models.DebtTransaction{}, nil).Maybe()
	r.On("ListDebtTransactions", mock.Anything, 2).Return(nil, errors.New("db down")).Once()

	_, err := New(r, newNoopLogger()).Dashboard(context.Background(), "alice")
	assert.EqualError(t, err, "db down")
}

func TestService_Dashboard_NoAccounts(t *testing.T) {
	r := new(RepoMock)
	r.On("ListDebtAccounts", mock.Anything, "alice").Return([]*models.DebtAccount{}, nil).Once()

	got, err := New(r, newNoopLogger()).Dashboard(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, got.Accounts)
	assert.True(t, got.Total.NetBalance.IsZero())
}

func TestService_AddTransaction(t *testing.T) {
	r := new(RepoMock)
	r.On("AddDebtTransaction", mock.Anything, "alice", mock.MatchedBy(func(tx models.DebtTransaction) bool {
		return tx.AccountID == 1 && tx.Type == finance.TypeGot
	})).Return(5, nil).Once()
	s := New(r, newNoopLogger())

	id, err := s.AddTransaction(context.Background(), "alice", 1, models.DummyDebtTransaction{
		Amount: decimal.NewFromInt(20), Type: "GOT", OccurredAt: "2026-05-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, id)

	_, err = s.AddTransaction(context.Background(), "alice", 1, models.DummyDebtTransaction{
		Amount: decimal.NewFromInt(-20), Type: "GOT", OccurredAt: "2026-05-01",
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
