package debt

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/finance-dashboard/internal/finance"
	"github.com/magabrotheeeer/finance-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finance-dashboard/internal/models"
)

type MockService struct{ mock.Mock }

func (m *MockService) CreateAccount(ctx context.Context, username string, req models.DummyDebtAccount) (int, error) {
	args := m.Called(ctx, username, req)
	return args.Int(0), args.Error(1)
}
func (m *MockService) ListAccounts(ctx context.Context, username string) ([]*models.DebtAccount, error) {
	args := m.Called(ctx, username)
	if res := args.Get(0); res != nil {
		return res.([]*models.DebtAccount), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockService) AddTransaction(ctx context.Context, username string, accountID int, req models.DummyDebtTransaction) (int, error) {
	args := m.Called(ctx, username, accountID, req)
	return args.Int(0), args.Error(1)
}
func (m *MockService) AccountSummary(ctx context.Context, username string, accountID int) (*models.DebtAccountSummary, error) {
	args := m.Called(ctx, username, accountID)
	if res := args.Get(0); res != nil {
		return res.(*models.DebtAccountSummary), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockService) Dashboard(ctx context.Context, username string) (*models.DebtDashboard, error) {
	args := m.Called(ctx, username)
	if res := args.Get(0); res != nil {
		return res.(*models.DebtDashboard), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newRequest(method, url, id, body string) *http.Request {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), middlewarectx.User, "alice")
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func TestTransactionHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная операция",
			body: `{"amount":500,"type":"GIVE","occurred_at":"2026-05-01"}`,
			setupMock: func(m *MockService) {
				m.On("AddTransaction", mock.Anything, "alice", 1, mock.MatchedBy(func(r models.DummyDebtTransaction) bool {
					return r.Type == "GIVE" && r.Amount.Equal(decimal.NewFromInt(500))
				})).Return(10, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"status":"OK","data":{"id":10}}`,
		},
		{
			name:           "неизвестный тип",
			body:           `{"amount":500,"type":"LEND","occurred_at":"2026-05-01"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "field Type must be one of: GIVE GOT",
		},
		{
			name: "чужой счёт",
			body: `{"amount":5,"type":"GOT","occurred_at":"2026-05-01"}`,
			setupMock: func(m *MockService) {
				m.On("AddTransaction", mock.Anything, "alice", 1, mock.Anything).Return(0, models.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockService)
			tt.setupMock(m)

			w := httptest.NewRecorder()
			NewTransaction(newNoopLogger(), m).ServeHTTP(w, newRequest(http.MethodPost, "/debts/1/transactions", "1", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			m.AssertExpectations(t)
		})
	}
}

func TestSummaryHandler(t *testing.T) {
	m := new(MockService)
	m.On("AccountSummary", mock.Anything, "alice", 1).Return(&models.DebtAccountSummary{
		Account: &models.DebtAccount{ID: 1, Counterparty: "Bob"},
		Summary: finance.SummarizeDebt([]finance.DebtTransaction{
			{Amount: decimal.NewFromInt(500), Type: finance.TypeGive},
			{Amount: decimal.NewFromInt(200), Type: finance.TypeGot},
			{Amount: decimal.NewFromInt(300), Type: finance.TypeGive, Status: "Settled"},
		}),
	}, nil).Once()

	w := httptest.NewRecorder()
	NewSummary(newNoopLogger(), m).ServeHTTP(w, newRequest(http.MethodGet, "/debts/1/summary", "1", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"summary":{"total_given":500,"total_taken":200,"settled_amount":300,"net_balance":600}`)
}

func TestDashboardHandler(t *testing.T) {
	m := new(MockService)
	m.On("Dashboard", mock.Anything, "alice").Return(nil, errors.New("db down")).Once()

	w := httptest.NewRecorder()
	NewDashboard(newNoopLogger(), m).ServeHTTP(w, newRequest(http.MethodGet, "/debts/dashboard", "", ""))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAccountHandlers(t *testing.T) {
	m := new(MockService)
	m.On("CreateAccount", mock.Anything, "alice", models.DummyDebtAccount{Counterparty: "Bob"}).Return(1, nil).Once()
	m.On("ListAccounts", mock.Anything, "alice").Return(nil, nil).Once()

	w := httptest.NewRecorder()
	NewCreateAccount(newNoopLogger(), m).ServeHTTP(w, newRequest(http.MethodPost, "/debts", "", `{"counterparty":"Bob"}`))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	NewListAccounts(newNoopLogger(), m).ServeHTTP(w, newRequest(http.MethodGet, "/debts", "", ""))
	assert.JSONEq(t, `{"status":"OK","data":[]}`, w.Body.String())
	m.AssertExpectations(t)
}
