// Package metrics exposes Prometheus collectors for HTTP traffic and the
// hydration batch pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/damu-app/damu-api/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Batch outcomes reported per user.
const (
	OutcomeProcessed = "processed"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Metrics holds the application collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	batchUsersTotal     *prometheus.CounterVec
	badgesAwardedTotal  *prometheus.CounterVec
	intakeRecordedTotal prometheus.Counter
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		batchUsersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streak_batch_users_total",
				Help: "Users handled by the daily streak batch, by outcome",
			},
			[]string{"outcome"},
		),
		badgesAwardedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streak_badges_awarded_total",
				Help: "Badges newly awarded by the daily streak batch",
			},
			[]string{"type"},
		),
		intakeRecordedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "intake_events_recorded_total",
				Help: "Intake events appended",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.batchUsersTotal,
		m.badgesAwardedTotal,
		m.intakeRecordedTotal,
	)
	return m
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IntakeRecorded counts one appended intake event.
func (m *Metrics) IntakeRecorded() {
	m.intakeRecordedTotal.Inc()
}

// BatchUser counts one user handled by the streak batch.
func (m *Metrics) BatchUser(outcome string) {
	m.batchUsersTotal.WithLabelValues(outcome).Inc()
}

// BadgeAwarded counts one newly created badge.
func (m *Metrics) BadgeAwarded(t domain.BadgeType) {
	m.badgesAwardedTotal.WithLabelValues(string(t)).Inc()
}

// Middleware records request counts and latencies labelled by the chi route
// pattern, so path parameters never create new series.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		m.httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "unmatched"
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return "unmatched"
}
