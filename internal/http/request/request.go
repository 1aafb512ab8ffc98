// Package request содержит общие шаги разбора HTTP-запроса: пользователь из контекста,
// ID из URL, пагинация и JSON-тело с валидацией. Каждая функция сама пишет ответ
// с ошибкой и возвращает false, если обработку нужно прекратить.
package request

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/finance-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finance-dashboard/internal/http/response"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/sl"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Username достает пользователя, положенного JWTMiddleware.
func Username(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	username, ok := middlewarectx.Username(r.Context())
	if !ok {
		log.Error("username not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return "", false
	}
	return username, true
}

// ID разбирает положительный параметр {id} из URL.
func ID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		log.Error("failed to decode id from url", slog.String("id", chi.URLParam(r, "id")))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return 0, false
	}
	return id, true
}

// Pagination читает limit и offset из query-параметров.
// Некорректные значения заменяются значениями по умолчанию, limit ограничен сверху.
func Pagination(r *http.Request) (limit, offset int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	offset, err = strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Decode разбирает JSON-тело в dst и проверяет его тегами validate.
func Decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, validate *validator.Validate, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		log.Error("validation failed", sl.Err(err))
		var verrs validator.ValidationErrors
		if ve, ok := err.(validator.ValidationErrors); ok {
			verrs = ve
		}
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verrs))
		return false
	}
	return true
}
