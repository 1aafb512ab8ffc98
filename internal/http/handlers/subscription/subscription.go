// Package subscription реализует HTTP-обработчики подписок: CRUD, списания,
// детали с подсказками и общую сводку.
//
// Каждый обработчик извлекает пользователя из контекста (JWTMiddleware),
// вызывает сервис и отвечает в формате response.Response.
package subscription

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

// Service описывает бизнес-логику подписок.
type Service interface {
	Create(ctx context.Context, username string, req models.DummySubscription) (int, error)
	Read(ctx context.Context, username string, id int) (*models.Subscription, error)
	Update(ctx context.Context, username string, id int, req models.DummySubscription) (int, error)
	Remove(ctx context.Context, username string, id int) (int, error)
	List(ctx context.Context, username string, limit, offset int) ([]*models.Subscription, error)
	AddLedgerEntry(ctx context.Context, username string, subscriptionID int, req models.DummyLedgerEntry) (int, error)
	Details(ctx context.Context, username string, id int) (*models.SubscriptionDetails, error)
	Overview(ctx context.Context, username string) (*finance.SubscriptionTotals, error)
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

// CreateHandler создает подписку.
type CreateHandler struct{ base }

// NewCreate создает CreateHandler.
func NewCreate(log *slog.Logger, service Service) *CreateHandler {
	return &CreateHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Создать подписку
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body models.DummySubscription true "Данные подписки"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /subscriptions [post]
func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}
	var req models.DummySubscription
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	id, err := h.service.Create(r.Context(), username, req)
	if err != nil {
		log.Error("failed to create subscription", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}

	log.Info("subscription created", slog.Int("id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"id": id}))
}

// ReadHandler возвращает подписку по ID.
type ReadHandler struct{ base }

// NewRead создает ReadHandler.
func NewRead(log *slog.Logger, service Service) *ReadHandler {
	return &ReadHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Получить подписку
// @Tags Subscriptions
// @Produce json
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptions/{id} [get]
func (h *ReadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.read"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}
	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}

	sub, err := h.service.Read(r.Context(), username, id)
	if err != nil {
		log.Error("failed to read subscription", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(sub))
}

// UpdateHandler заменяет поля подписки.
type UpdateHandler struct{ base }

// NewUpdate создает UpdateHandler.
func NewUpdate(log *slog.Logger, service Service) *UpdateHandler {
	return &UpdateHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Обновить подписку
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path int true "ID подписки"
// @Param request body models.DummySubscription true "Новые данные подписки"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /subscriptions/{id} [put]
func (h *UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.update"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}
	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}
	var req models.DummySubscription
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	updated, err := h.service.Update(r.Context(), username, id, req)
	if err != nil {
		log.Error("failed to update subscription", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"updated": updated}))
}

// RemoveHandler удаляет подписку.
type RemoveHandler struct{ base }

// NewRemove создает RemoveHandler.
func NewRemove(log *slog.Logger, service Service) *RemoveHandler {
	return &RemoveHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Удалить подписку
// @Tags Subscriptions
// @Produce json
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptions/{id} [delete]
func (h *RemoveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.remove"
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
		log.Error("failed to remove subscription", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	log.Info("subscription removed", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"deleted": removed}))
}

// ListHandler возвращает подписки пользователя постранично.
type ListHandler struct{ base }

// NewList создает ListHandler.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Список подписок
// @Tags Subscriptions
// @Produce json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Router /subscriptions [get]
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}
	limit, offset := request.Pagination(r)

	subs, err := h.service.List(r.Context(), username, limit, offset)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	if subs == nil {
		subs = []*models.Subscription{}
	}
	render.JSON(w, r, response.StatusOKWithData(subs))
}

// LedgerHandler добавляет списание по подписке.
type LedgerHandler struct{ base }

// NewLedger создает LedgerHandler.
func NewLedger(log *slog.Logger, service Service) *LedgerHandler {
	return &LedgerHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Добавить списание по подписке
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path int true "ID подписки"
// @Param request body models.DummyLedgerEntry true "Списание"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /subscriptions/{id}/ledger [post]
func (h *LedgerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.ledger"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}
	id, ok := request.ID(w, r, log)
	if !ok {
		return
	}
	var req models.DummyLedgerEntry
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	entryID, err := h.service.AddLedgerEntry(r.Context(), username, id, req)
	if err != nil {
		log.Error("failed to add ledger entry", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"id": entryID}))
}

// DetailsHandler возвращает подписку с расчётами и подсказками.
type DetailsHandler struct{ base }

// NewDetails создает DetailsHandler.
func NewDetails(log *slog.Logger, service Service) *DetailsHandler {
	return &DetailsHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Детали подписки
// @Description Траты за всё время, стоимость в месяц и год, предупреждения о продлении.
// @Tags Subscriptions
// @Produce json
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptions/{id}/details [get]
func (h *DetailsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.details"
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
		log.Error("failed to build subscription details", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(details))
}

// OverviewHandler возвращает сводку по подпискам пользователя.
type OverviewHandler struct{ base }

// NewOverview создает OverviewHandler.
func NewOverview(log *slog.Logger, service Service) *OverviewHandler {
	return &OverviewHandler{newBase(log, service)}
}

// ServeHTTP godoc
// @Summary Сводка по подпискам
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} response.Response
// @Router /subscriptions/overview [get]
func (h *OverviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.overview"
	log := h.logger(r, op)

	username, ok := request.Username(w, r, log)
	if !ok {
		return
	}

	totals, err := h.service.Overview(r.Context(), username)
	if err != nil {
		log.Error("failed to build overview", sl.Err(err))
		response.ServiceError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(totals))
}
