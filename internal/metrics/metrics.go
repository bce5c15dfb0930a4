package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	workflowCalls     *prometheus.CounterVec
	workflowDuration  *prometheus.HistogramVec
	sessionCacheHits  prometheus.Counter
	sessionCacheMiss  prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ecokpi_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ecokpi_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		workflowCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ecokpi_workflow_calls_total",
			Help: "Total calls to the external workflow engine by operation and outcome.",
		}, []string{"operation", "outcome"}),
		workflowDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ecokpi_workflow_call_duration_seconds",
			Help:    "Histogram of workflow call durations by operation.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"operation"}),
		sessionCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecokpi_session_cache_hits_total",
			Help: "Total session cache hits observed.",
		}),
		sessionCacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecokpi_session_cache_misses_total",
			Help: "Total session cache misses observed.",
		}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.workflowCalls,
		m.workflowDuration,
		m.sessionCacheHits,
		m.sessionCacheMiss,
	)

	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Middleware records request counts and durations labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			next.ServeHTTP(w, r)
			return
		}

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}

	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WorkflowCall records one call to the workflow engine.
func (m *Metrics) WorkflowCall(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	outcome := "success"
	if err != nil {
		outcome = "error"
	}

	m.workflowCalls.WithLabelValues(operation, outcome).Inc()
	m.workflowDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *Metrics) SessionCacheHit() {
	if m == nil {
		return
	}

	m.sessionCacheHits.Inc()
}

func (m *Metrics) SessionCacheMiss() {
	if m == nil {
		return
	}

	m.sessionCacheMiss.Inc()
}
