// Package middlewarectx содержит HTTP middleware дашборда.
//
// JWTMiddleware проверяет JWT токен из заголовка Authorization и в случае успеха
// добавляет в контекст имя пользователя и роль. При ошибке возвращает 401.
// Почта из токена сохраняется, чтобы планировщик мог отправлять уведомления.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/finance-dashboard/internal/http/response"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/jwt"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для имени пользователя в контексте
	User Key = "username"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
)

// TokenParser проверяет токен и возвращает его claims.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// UserRegistry запоминает почту владельца токена.
type UserRegistry interface {
	UpsertUser(ctx context.Context, username, email string) error
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
// users может быть nil, тогда почта из токена не сохраняется.
func JWTMiddleware(parser TokenParser, users UserRegistry, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			if users != nil && claims.Email != "" {
				if err := users.UpsertUser(r.Context(), claims.Username, claims.Email); err != nil {
					log.Warn("failed to save user email", sl.Err(err))
				}
			}

			ctx := context.WithValue(r.Context(), User, claims.Username)
			ctx = context.WithValue(ctx, Role, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Username возвращает имя пользователя, положенное JWTMiddleware.
func Username(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(User).(string)
	return username, ok && username != ""
}
