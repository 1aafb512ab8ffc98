// Package metrics собирает метрики Prometheus для HTTP API и фоновых задач.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "finance_dashboard"

// Metrics хранит зарегистрированные коллекторы.
type Metrics struct {
	requests         *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	noticesPublished prometheus.Counter
	scanFailures     prometheus.Counter
}

// New создает коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		noticesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renewal_notices_published_total",
			Help:      "Renewal notices published to the notification queue.",
		}),
		scanFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renewal_scan_failures_total",
			Help:      "Renewal scans that failed before publishing.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.noticesPublished, m.scanFailures)
	return m
}

// Middleware считает запросы и время ответа. Метка route содержит шаблон chi, а не сырой путь,
// чтобы идентификаторы не раздували число рядов.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// ObserveScan фиксирует результат одного сканирования продлений.
func (m *Metrics) ObserveScan(published int, err error) {
	if err != nil {
		m.scanFailures.Inc()
		return
	}
	m.noticesPublished.Add(float64(published))
}
