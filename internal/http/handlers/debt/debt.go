// Package debt реализует HTTP-обработчики долговых счетов.
package debt

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/finance-dashboard/internal/http/request"
	"github.com/magabrotheeeer/finance-dashboard/internal/http/response"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/finance-dashboard/internal/models"
)

// Service описывает бизнес-логику долговых счетов.
type Service interface {
	CreateAccount(ctx context.Context, username string, req models.DummyDebtAccount) (int, error)
	ListAccounts(ctx context.Context, username string) ([]*models.DebtAccount, error)
	AddTransaction(ctx context.Context, username string, accountID int, req models.DummyDebtTransaction) (int, error)
	AccountSummary(ctx context.Context, username string, accountID int) (*models.DebtAccountSummary, error)
	Dashboard(ctx context.Context, username string) (*models.DebtDashboard, error)
}

type base struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func newBase(log *slog.Logger, service Service) base {
	return base{log: log, service: service, validate: validator.New()}
}

func (b base) logger(r *http.Request, op string) *slog.Logger {
	return b.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// CreateAccountHandler открывает счёт с контрагентом.
type CreateAccountHandler struct{ base }

// NewCreateAccount создает CreateAccountHandler.
func NewCreateAccount(log *slog.Logger, service Service) *CreateAccountHandler {
	return &CreateAccountHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Открыть долговой счёт
// @Tags Debts
// @Accept json
// @Produce json
// @Param request body models.DummyDebtAccount true "Контрагент"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.ErrorResponse
// @Router /debts [post]
func (h *CreateAccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.debt.createAccount"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}
	var req models.DummyDebtAccount
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	id, err := h.service.CreateAccount(r.Context(), username, req)
	if err != nil {
		log.Error("failed to create debt account", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"id": id}))
}

// ListAccountsHandler возвращает счета пользователя.
type ListAccountsHandler struct{ base }

// NewListAccounts создает ListAccountsHandler.
func NewListAccounts(log *slog.Logger, service Service) *ListAccountsHandler {
	return &ListAccountsHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Список долговых счетов
// @Tags Debts
// @Produce json
// @Success 200 {object} response.Response
// @Router /debts [get]
func (h *ListAccountsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.debt.listAccounts"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}

	accounts, err := h.service.ListAccounts(r.Context(), username)
	if err != nil {
		log.Error("failed to list debt accounts", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	if accounts == nil {
		accounts = []*models.DebtAccount{}
	}
	render.JSON(w, r, response.StatusOKWithData(accounts))
}

// TransactionHandler добавляет операцию в журнал счёта.
type TransactionHandler struct{ base }

// NewTransaction создает TransactionHandler.
func NewTransaction(log *slog.Logger, service Service) *TransactionHandler {
	return &TransactionHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Добавить операцию по счёту
// @Tags Debts
// @Accept json
// @Produce json
// @Param id path int true "ID счёта"
// @Param request body models.DummyDebtTransaction true "Операция"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /debts/{id}/transactions [post]
func (h *TransactionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.debt.transaction"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}
	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}
	var req models.DummyDebtTransaction
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	txID, err := h.service.AddTransaction(r.Context(), username, id, req)
	if err != nil {
		log.Error("failed to add debt transaction", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"id": txID}))
}

// SummaryHandler возвращает итоги по счёту.
type SummaryHandler struct{ base }

// NewSummary создает SummaryHandler.
func NewSummary(log *slog.Logger, service Service) *SummaryHandler {
	return &SummaryHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Итоги по счёту
// @Tags Debts
// @Produce json
// @Param id path int true "ID счёта"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /debts/{id}/summary [get]
func (h *SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.debt.summary"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}
	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	summary, err := h.service.AccountSummary(r.Context(), username, id)
	if err != nil {
		log.Error("failed to summarize debt account", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(summary))
}

// DashboardHandler возвращает итоги по всем счетам.
type DashboardHandler struct{ base }

// NewDashboard создает DashboardHandler.
func NewDashboard(log *slog.Logger, service Service) *DashboardHandler {
	return &DashboardHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Сводка по долгам
// @Tags Debts
// @Produce json
// @Success 200 {object} response.Response
// @Router /debts/dashboard [get]
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.debt.dashboard"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), username)
	if err != nil {
		log.Error("failed to build debt dashboard", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(dashboard))
}
