// Package health отвечает на проверки живости и готовности.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/finance-dashboard/internal/http/response"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/sl"
)

const checkTimeout = 2 * time.Second

// Checker проверяет доступность зависимости.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler отвечает 200, если все зависимости доступны, и 503 иначе.
type Handler struct {
	log      *slog.Logger
	checkers map[string]Checker
}

// New создает Handler.
func New(log *slog.Logger, checkers map[string]Checker) *Handler {
	return &Handler{
		log:      log,
		checkers: checkers,
	}
}

// ServeHTTP godoc
// @Summary Проверка состояния
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.ErrorResponse
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	for name, c := range h.checkers {
		if err := c.Ping(ctx); err != nil {
			h.log.Error("dependency is unavailable", slog.String("op", op), slog.String("dependency", name), sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error(name+" is unavailable"))
			return
		}
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"status": "ok"}))
}
