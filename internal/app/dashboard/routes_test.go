package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/finance-dashboard/internal/finance"
	"github.com/magabrotheeeer/finance-dashboard/internal/http/handlers/health"
	"github.com/magabrotheeeer/finance-dashboard/internal/http/handlers/subscription"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/jwt"
	"github.com/magabrotheeeer/finance-dashboard/internal/lib/metrics"
)

type stubParser struct{}

func (stubParser) ParseToken(tokenStr string) (*jwt.CustomClaims, error) {
	if tokenStr != "valid" {
		return nil, errors.New("bad token")
	}
	return &jwt.CustomClaims{Username: "alice", Role: "user"}, nil
}

type stubChecker struct{ err error }

func (c stubChecker) Ping(context.Context) error { return c.err }

// overviewOnly реализует только Overview, остальные методы не должны вызываться.
type overviewOnly struct {
	subscription.Service
	calls int
}

func (s *overviewOnly) Overview(_ context.Context, username string) (*finance.SubscriptionTotals, error) {
	s.calls++
	if username != "alice" {
		return nil, errors.New("unexpected user")
	}
	return &finance.SubscriptionTotals{}, nil
}

func newRouter(t *testing.T, subs subscription.Service, checkErr error) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, slog.New(slog.NewTextHandler(io.Discard, nil)), Services{
		Subscriptions: subs,
		Tokens:        stubParser{},
		Health:        map[string]health.Checker{"postgres": stubChecker{err: checkErr}},
		Metrics:       metrics.New(prometheus.NewRegistry()),
		RateLimit:     100,
		RateBurst:     100,
	})
	return r
}

func TestRoutes_Health(t *testing.T) {
	tests := []struct {
		name     string
		checkErr error
		want     int
	}{
		{name: "healthy", want: http.StatusOK},
		{name: "postgres down", checkErr: errors.New("conn refused"), want: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(t, &overviewOnly{}, tt.checkErr).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRoutes_APIRequiresToken(t *testing.T) {
	subs := &overviewOnly{}
	rec := httptest.NewRecorder()
	newRouter(t, subs, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/overview", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, subs.calls)
}

func TestRoutes_OverviewIsNotTreatedAsID(t *testing.T) {
	subs := &overviewOnly{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/overview", nil)
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()

	newRouter(t, subs, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, subs.calls)
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)
}

func TestRoutes_Metrics(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t, &overviewOnly{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
