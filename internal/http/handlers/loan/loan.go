// Package loan реализует HTTP-обработчики кредитов: условия, платежи,
// график и сводку с оценкой ставки.
package loan

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/finance-dashboard/internal/finance"
	"github.com/magabrotheeeer/finance-dashboard/internal/http/request"
	"github.com/magabrotheeeer/finance-dashboard/internal/http/response"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/finance-dashboard/internal/models"
)

// Service описывает бизнес-логику кредитов.
type Service interface {
	Create(ctx context.Context, username string, req models.DummyLoan) (int, error)
	Read(ctx context.Context, username string, id int) (*models.Loan, error)
	List(ctx context.Context, username string) ([]*models.Loan, error)
	Remove(ctx context.Context, username string, id int) (int, error)
	AddPayment(ctx context.Context, username string, loanID int, req models.DummyLoanPayment) (int, error)
	Schedule(ctx context.Context, username string, id int) ([]finance.ScheduleEntry, error)
	Details(ctx context.Context, username string, id int) (*models.LoanDetails, error)
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

// CreateHandler сохраняет условия кредита.
type CreateHandler struct{ base }

// NewCreate создает CreateHandler.
func NewCreate(log *slog.Logger, service Service) *CreateHandler {
	return &CreateHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Добавить кредит
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body models.DummyLoan true "Условия кредита"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.ErrorResponse
// @Router /loans [post]
func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.loan.create"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}
	var req models.DummyLoan
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	id, err := h.service.Create(r.Context(), username, req)
	if err != nil {
		log.Error("failed to create loan", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"id": id}))
}

// ReadHandler возвращает кредит по ID.
type ReadHandler struct{ base }

// NewRead создает ReadHandler.
func NewRead(log *slog.Logger, service Service) *ReadHandler {
	return &ReadHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Получить кредит
// @Tags Loans
// @Produce json
// @Param id path int true "ID кредита"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /loans/{id} [get]
func (h *ReadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.loan.read"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}
	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	loan, err := h.service.Read(r.Context(), username, id)
	if err != nil {
		log.Error("failed to read loan", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(loan))
}

// ListHandler возвращает кредиты пользователя.
type ListHandler struct{ base }

// NewList создает ListHandler.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Список кредитов
// @Tags Loans
// @Produce json
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.loan.list"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}

	loans, err := h.service.List(r.Context(), username)
	if err != nil {
		log.Error("failed to list loans", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	if loans == nil {
		loans = []*models.Loan{}
	}
	render.JSON(w, r, response.StatusOKWithData(loans))
}

// RemoveHandler удаляет кредит.
type RemoveHandler struct{ base }

// NewRemove создает RemoveHandler.
func NewRemove(log *slog.Logger, service Service) *RemoveHandler {
	return &RemoveHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Удалить кредит
// @Tags Loans
// @Produce json
// @Param id path int true "ID кредита"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /loans/{id} [delete]
func (h *RemoveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.loan.remove"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}
	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	removed, err := h.service.Remove(r.Context(), username, id)
	if err != nil {
		log.Error("failed to remove loan", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"deleted": removed}))
}

// PaymentHandler фиксирует платёж по кредиту.
type PaymentHandler struct{ base }

// NewPayment создает PaymentHandler.
func NewPayment(log *slog.Logger, service Service) *PaymentHandler {
	return &PaymentHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Добавить платёж по кредиту
// @Tags Loans
// @Accept json
// @Produce json
// @Param id path int true "ID кредита"
// @Param request body models.DummyLoanPayment true "Платёж"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /loans/{id}/payments [post]
func (h *PaymentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.loan.payment"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}
	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}
	var req models.DummyLoanPayment
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	paymentID, err := h.service.AddPayment(r.Context(), username, id, req)
	if err != nil {
		log.Error("failed to add loan payment", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"id": paymentID}))
}

// ScheduleHandler возвращает график платежей.
type ScheduleHandler struct{ base }

// NewSchedule создает ScheduleHandler.
func NewSchedule(log *slog.Logger, service Service) *ScheduleHandler {
	return &ScheduleHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary График платежей
// @Tags Loans
// @Produce json
// @Param id path int true "ID кредита"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /loans/{id}/schedule [get]
func (h *ScheduleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.loan.schedule"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}
	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	schedule, err := h.service.Schedule(r.Context(), username, id)
	if err != nil {
		log.Error("failed to build schedule", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(schedule))
}

// DetailsHandler возвращает график, прогресс и оценку ставки.
type DetailsHandler struct{ base }

// NewDetails создает DetailsHandler.
func NewDetails(log *slog.Logger, service Service) *DetailsHandler {
	return &DetailsHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Детали кредита
// @Tags Loans
// @Produce json
// @Param id path int true "ID кредита"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /loans/{id}/details [get]
func (h *DetailsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.loan.details"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}
	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	details, err := h.service.Details(r.Context(), username, id)
	if err != nil {
		log.Error("failed to build loan details", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(details))
}
