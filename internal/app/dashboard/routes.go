package dashboard

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/finance-dashboard/internal/http/handlers/debt"
	"github.com/magabrotheeeer/finance-dashboard/internal/http/handlers/health"
	"github.com/magabrotheeeer/finance-dashboard/internal/http/handlers/loan"
	"github.com/magabrotheeeer/finance-dashboard/internal/http/handlers/subscription"
	"github.com/magabrotheeeer/finance-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/metrics"

	// Регистрация Swagger-спецификации.
	_ "github.com/magabrotheeeer/finance-dashboard/docs"
)

// Services — зависимости HTTP API.
type Services struct {
	Subscriptions subscription.Service
	Loans         loan.Service
	Debts         debt.Service
	Tokens        middlewarectx.TokenParser
	Users         middlewarectx.UserRegistry
	Health        map[string]health.Checker
	Metrics       *metrics.Metrics
	RateLimit     float64
	RateBurst     int
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		s.Metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(s.Tokens, s.Users, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger, s.RateLimit, s.RateBurst))

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/", subscription.NewList(logger, s.Subscriptions).ServeHTTP)
			r.Post("/", subscription.NewCreate(logger, s.Subscriptions).ServeHTTP)
			r.Get("/overview", subscription.NewOverview(logger, s.Subscriptions).ServeHTTP)
			r.Get("/{id}", subscription.NewRead(logger, s.Subscriptions).ServeHTTP)
			r.Put("/{id}", subscription.NewUpdate(logger, s.Subscriptions).ServeHTTP)
			r.Delete("/{id}", subscription.NewRemove(logger, s.Subscriptions).ServeHTTP)
			r.Post("/{id}/ledger", subscription.NewLedger(logger, s.Subscriptions).ServeHTTP)
			r.Get("/{id}/details", subscription.NewDetails(logger, s.Subscriptions).ServeHTTP)
		})

		r.Route("/loans", func(r chi.Router) {
			r.Get("/", loan.NewList(logger, s.Loans).ServeHTTP)
			r.Post("/", loan.NewCreate(logger, s.Loans).ServeHTTP)
			r.Get("/{id}", loan.NewRead(logger, s.Loans).ServeHTTP)
			r.Delete("/{id}", loan.NewRemove(logger, s.Loans).ServeHTTP)
			r.Post("/{id}/payments", loan.NewPayment(logger, s.Loans).ServeHTTP)
			r.Get("/{id}/schedule", loan.NewSchedule(logger, s.Loans).ServeHTTP)
			r.Get("/{id}/details", loan.NewDetails(logger, s.Loans).ServeHTTP)
		})

		r.Route("/debts", func(r chi.Router) {
			r.Get("/", debt.NewListAccounts(logger, s.Debts).ServeHTTP)
			r.Post("/", debt.NewCreateAccount(logger, s.Debts).ServeHTTP)
			r.Get("/dashboard", debt.NewDashboard(logger, s.Debts).ServeHTTP)
			r.Post("/{id}/transactions", debt.NewTransaction(logger, s.Debts).ServeHTTP)
			r.Get("/{id}/summary", debt.NewSummary(logger, s.Debts).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, s.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
