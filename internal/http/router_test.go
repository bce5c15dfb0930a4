package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/ecokpi/internal/auth"
	ecohttp "github.com/MrJamesThe3rd/ecokpi/internal/http"
	authHandler "github.com/MrJamesThe3rd/ecokpi/internal/http/auth"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/export"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/importcsv"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/invoice"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/kpi"
	"github.com/MrJamesThe3rd/ecokpi/internal/metrics"
)

type pinger struct {
	err error
}

func (p pinger) PingContext(context.Context) error { return p.err }

func newRouter(health ecohttp.Pinger) http.Handler {
	authSvc := auth.NewService(nil, auth.NewIssuer("secret", "supabase", time.Hour), auth.NewMemoryCache(), nil)

	return ecohttp.New(
		ecohttp.Options{
			AllowedOrigins: []string{"http://localhost:3000"},
			Health:         health,
			Metrics:        metrics.New(),
			Auth:           authSvc,
		},
		authHandler.NewHandler(authSvc),
		invoice.NewHandler(nil),
		kpi.NewHandler(nil),
		importcsv.NewHandler(nil),
		export.NewHandler(nil),
	)
}

func TestRouter(t *testing.T) {
	type testCase struct {
		name       string
		health     ecohttp.Pinger
		method     string
		path       string
		header     map[string]string
		wantStatus int
		wantHeader map[string]string
	}

	tests := []testCase{
		{name: "Healthy", health: pinger{}, method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK},
		{name: "DatabaseDown", health: pinger{err: errors.New("down")}, method: http.MethodGet, path: "/healthz", wantStatus: http.StatusServiceUnavailable},
		{name: "Metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "InvoicesNeedToken", method: http.MethodGet, path: "/api/v1/invoices", wantStatus: http.StatusUnauthorized},
		{name: "KPIsNeedToken", method: http.MethodGet, path: "/api/v1/companies/x/kpis", wantStatus: http.StatusUnauthorized},
		{name: "ReportsNeedToken", method: http.MethodGet, path: "/api/v1/reports/matrix", wantStatus: http.StatusUnauthorized},
		{name: "ImportNeedsToken", method: http.MethodPost, path: "/api/v1/invoices/import", wantStatus: http.StatusUnauthorized},
		{name: "ExchangeNeedsUpstreamToken", method: http.MethodPost, path: "/api/postgrest-token", wantStatus: http.StatusUnauthorized},
		{name: "LogoutNeedsToken", method: http.MethodPost, path: "/api/v1/auth/logout", wantStatus: http.StatusUnauthorized},
		{
			name:   "CORSPreflight",
			method: http.MethodOptions,
			path:   "/api/v1/invoices",
			header: map[string]string{
				"Origin":                        "http://localhost:3000",
				"Access-Control-Request-Method": http.MethodPost,
			},
			wantStatus: http.StatusOK,
			wantHeader: map[string]string{"Access-Control-Allow-Origin": "http://localhost:3000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			newRouter(tt.health).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			for k, v := range tt.wantHeader {
				assert.Equal(t, v, rec.Header().Get(k))
			}
		})
	}
}
