package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/ecokpi/internal/auth"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/request"
	"github.com/MrJamesThe3rd/ecokpi/internal/importer"
	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
	"github.com/MrJamesThe3rd/ecokpi/internal/kpi"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err with the status its kind maps to. Unknown errors are
// logged and hidden behind a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", status)

		return
	}

	http.Error(w, err.Error(), status)
}

func Status(err error) int {
	var (
		validationErr *request.ValidationError
		uploadErr     *invoice.ValidationError
		targetErr     *kpi.TargetError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &uploadErr),
		errors.Is(err, invoice.ErrFileType), errors.Is(err, invoice.ErrFileSize),
		errors.Is(err, importer.ErrNoProfile), errors.Is(err, importer.ErrEmptyFile):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, invoice.ErrNotFound), errors.Is(err, kpi.ErrBaselineNotFound),
		errors.Is(err, kpi.ErrNoInvoices):
		return http.StatusNotFound
	case errors.Is(err, kpi.ErrGenerationInProgress):
		return http.StatusConflict
	case errors.As(err, &targetErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, invoice.ErrExtraction), errors.Is(err, kpi.ErrGeneration):
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
