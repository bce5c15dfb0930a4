package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ecokpi/internal/metrics"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	return string(body)
}

func TestMetrics_Middleware(t *testing.T) {
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/v1/kpis/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/kpis/42", nil))

	body := scrape(t, m)
	assert.Contains(t, body, `ecokpi_http_requests_total{route="/api/v1/kpis/{id}",status="418"} 1`)
	assert.Contains(t, body, `ecokpi_http_request_duration_seconds_count{route="/api/v1/kpis/{id}"} 1`)
}

func TestMetrics_WorkflowAndCache(t *testing.T) {
	m := metrics.New()

	m.WorkflowCall("extract", time.Second, nil)
	m.WorkflowCall("extract", time.Second, errors.New("boom"))
	m.SessionCacheHit()
	m.SessionCacheMiss()
	m.SessionCacheMiss()

	body := scrape(t, m)
	assert.Contains(t, body, `ecokpi_workflow_calls_total{operation="extract",outcome="success"} 1`)
	assert.Contains(t, body, `ecokpi_workflow_calls_total{operation="extract",outcome="error"} 1`)
	assert.Contains(t, body, "ecokpi_session_cache_hits_total 1")
	assert.Contains(t, body, "ecokpi_session_cache_misses_total 2")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.WorkflowCall("generate_kpis", time.Second, nil)
		m.SessionCacheHit()
		m.SessionCacheMiss()
	})

	called := false
	h := m.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}
