package respond_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/ecokpi/internal/auth"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/request"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/respond"
	"github.com/MrJamesThe3rd/ecokpi/internal/importer"
	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
	"github.com/MrJamesThe3rd/ecokpi/internal/kpi"
)

func TestStatus(t *testing.T) {
	type testCase struct {
		name string
		err  error
		want int
	}

	tests := []testCase{
		{name: "RequestValidation", err: &request.ValidationError{Fields: map[string]string{"year": "required"}}, want: http.StatusBadRequest},
		{name: "UploadValidation", err: fmt.Errorf("row 2: %w", &invoice.ValidationError{Problems: []string{"year is required"}}), want: http.StatusBadRequest},
		{name: "FileType", err: invoice.ErrFileType, want: http.StatusBadRequest},
		{name: "NoProfile", err: fmt.Errorf("parse x.csv: %w", importer.ErrNoProfile), want: http.StatusBadRequest},
		{name: "InvalidToken", err: auth.ErrInvalidToken, want: http.StatusUnauthorized},
		{name: "InvoiceNotFound", err: invoice.ErrNotFound, want: http.StatusNotFound},
		{name: "NoInvoices", err: fmt.Errorf("%w of type Agua found for year 2025", kpi.ErrNoInvoices), want: http.StatusNotFound},
		{name: "GenerationInProgress", err: kpi.ErrGenerationInProgress, want: http.StatusConflict},
		{name: "Target", err: &kpi.TargetError{Value: 1, Err: kpi.ErrTargetNotBelowAverage}, want: http.StatusUnprocessableEntity},
		{name: "Extraction", err: fmt.Errorf("%w: timeout", invoice.ErrExtraction), want: http.StatusBadGateway},
		{name: "Generation", err: fmt.Errorf("%w: timeout", kpi.ErrGeneration), want: http.StatusBadGateway},
		{name: "Unknown", err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, respond.Status(tt.err))
		})
	}
}

func TestError_HidesInternalErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)

	rec := httptest.NewRecorder()
	respond.Error(rec, req, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error\n", rec.Body.String())

	rec = httptest.NewRecorder()
	respond.Error(rec, req, kpi.ErrGenerationInProgress)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "kpi generation already in progress\n", rec.Body.String())
}
