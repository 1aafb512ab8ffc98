package middlewarectx

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/finance-dashboard/internal/http/response"
)

type limiters struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	byKey map[string]*rate.Limiter
}

func (l *limiters) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.byKey[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.byKey[key] = limiter
	}
	return limiter
}

// RateLimitMiddleware ограничивает частоту запросов отдельно для каждого пользователя.
// Должен стоять после JWTMiddleware; без имени пользователя ключом служит адрес клиента.
func RateLimitMiddleware(log *slog.Logger, limit float64, burst int) func(http.Handler) http.Handler {
	l := &limiters{
		limit: rate.Limit(limit),
		burst: burst,
		byKey: make(map[string]*rate.Limiter),
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := Username(r.Context())
			if !ok {
				key = r.RemoteAddr
			}
			if !l.get(key).Allow() {
				log.Warn("too many requests", slog.String("path", r.URL.Path), slog.String("client", key))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
