package kpi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	kpiHandler "github.com/MrJamesThe3rd/ecokpi/internal/http/kpi"
	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
	"github.com/MrJamesThe3rd/ecokpi/internal/kpi"
)

type mocks struct {
	repo      *kpi.MockRepository
	invoices  *kpi.MockInvoiceSource
	generator *kpi.MockGenerator
}

func newRouter(t *testing.T) (http.Handler, mocks) {
	ctrl := gomock.NewController(t)

	m := mocks{
		repo:      kpi.NewMockRepository(ctrl),
		invoices:  kpi.NewMockInvoiceSource(ctrl),
		generator: kpi.NewMockGenerator(ctrl),
	}

	r := chi.NewRouter()
	kpiHandler.NewHandler(kpi.NewService(m.repo, m.invoices, m.generator)).Routes(r)

	return r, m
}

func energyInvoices(values ...string) []*invoice.Invoice {
	invs := make([]*invoice.Invoice, 0, len(values))
	for i, v := range values {
		invs = append(invs, &invoice.Invoice{
			ID:   uuid.New(),
			Type: invoice.TypeEnergy,
			Year: 2025,
			Data: invoice.Fields{"consumo_kwh": v, "periodo_facturado": []string{"ENE/2025", "FEB/2025", "MAR/2025"}[i%3]},
		})
	}

	return invs
}

func TestHandler_UpdateTarget(t *testing.T) {
	baselineID := uuid.New()
	baseline := func() *kpi.Baseline {
		return &kpi.Baseline{ID: baselineID, CompanyID: uuid.New(), InvoiceType: invoice.TypeEnergy, Year: 2025, BaselineValue: 1000}
	}

	type testCase struct {
		name       string
		path       string
		body       string
		setupMock  func(m mocks)
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name: "Success",
			path: "/kpis/baselines/" + baselineID.String() + "/target",
			body: `{"target_value": 900}`,
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetBaseline(gomock.Any(), baselineID).Return(baseline(), nil)
				m.invoices.EXPECT().List(gomock.Any(), gomock.Any()).Return(energyInvoices("900", "1000"), nil)
				m.repo.EXPECT().UpdateTarget(gomock.Any(), baselineID, 900.0).Return(nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"target_value":900`,
		},
		{
			name: "NotBelowAverage",
			path: "/kpis/baselines/" + baselineID.String() + "/target",
			body: `{"target_value": 950}`,
			setupMock: func(m mocks) {
				m.repo.EXPECT().GetBaseline(gomock.Any(), baselineID).Return(baseline(), nil)
				m.invoices.EXPECT().List(gomock.Any(), gomock.Any()).Return(energyInvoices("900", "1000"), nil)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   kpi.ErrTargetNotBelowAverage.Error(),
		},
		{
			name:       "MissingValue",
			path:       "/kpis/baselines/" + baselineID.String() + "/target",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "target_value: required",
		},
		{
			name:       "BadID",
			path:       "/kpis/baselines/nope/target",
			body:       `{"target_value": 900}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newRouter(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			req := httptest.NewRequest(http.MethodPatch, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

type fakeLock struct{}

func (fakeLock) Release() error { return nil }

func TestHandler_Generate(t *testing.T) {
	companyID := uuid.New()
	path := "/companies/" + companyID.String() + "/kpis/generate"

	t.Run("InProgress", func(t *testing.T) {
		router, m := newRouter(t)

		m.invoices.EXPECT().List(gomock.Any(), gomock.Any()).Return(energyInvoices("900"), nil)
		m.repo.EXPECT().BeginGeneration(gomock.Any(), companyID, invoice.TypeEnergy, 2025).Return(nil, kpi.ErrGenerationInProgress)

		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"type": "energia", "year": 2025}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("ForwardsBearerToken", func(t *testing.T) {
		router, m := newRouter(t)

		invs := energyInvoices("900", "1000", "950")

		m.invoices.EXPECT().List(gomock.Any(), gomock.Any()).Return(invs, nil).Times(2)
		m.repo.EXPECT().BeginGeneration(gomock.Any(), companyID, invoice.TypeEnergy, 2025).Return(fakeLock{}, nil)
		m.generator.EXPECT().GenerateKPIs(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req kpi.GenerateRequest) error {
				assert.Equal(t, "jwt", req.Token)
				assert.Len(t, req.Invoices, 3)

				return nil
			})
		m.repo.EXPECT().ListBaselines(gomock.Any(), companyID, 2025).Return([]*kpi.Baseline{
			{ID: uuid.New(), CompanyID: companyID, InvoiceType: invoice.TypeEnergy, Year: 2025, BaselineValue: 1000},
		}, nil)
		m.repo.EXPECT().ListMonthlyEvaluations(gomock.Any(), companyID, invoice.TypeEnergy, gomock.Any()).Return(nil, nil)

		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"type": "energia", "year": 2025}`))
		req.Header.Set("Authorization", "Bearer jwt")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			State string `json:"state"`
			Cards []struct {
				CurrentAverage float64 `json:"current_average"`
				Status         string  `json:"status"`
			} `json:"cards"`
			Evaluations map[string][]json.RawMessage `json:"evaluations"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

		assert.Equal(t, string(kpi.StateReady), body.State)
		require.Len(t, body.Cards, 1)
		assert.Equal(t, 950.0, body.Cards[0].CurrentAverage)
		assert.Equal(t, string(kpi.StatusWithinTarget), body.Cards[0].Status)
		assert.Len(t, body.Evaluations[string(invoice.TypeEnergy)], 3)
	})

	t.Run("InvalidYear", func(t *testing.T) {
		router, _ := newRouter(t)

		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"type": "energia", "year": 25}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "year: gte")
	})
}

func TestHandler_DashboardDefaultsToCurrentYear(t *testing.T) {
	router, m := newRouter(t)

	companyID := uuid.New()

	m.invoices.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
	m.repo.EXPECT().ListBaselines(gomock.Any(), companyID, gomock.Any()).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/companies/"+companyID.String()+"/kpis", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"no_data"`)
	assert.Contains(t, rec.Body.String(), `"eligible_types":[]`)
}
