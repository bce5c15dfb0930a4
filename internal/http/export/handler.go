package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ecokpi/internal/http/request"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/respond"
	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
	"github.com/MrJamesThe3rd/ecokpi/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var bundleTypes = []invoice.Type{invoice.TypeEnergy, invoice.TypeWater, invoice.TypeMinutes}

type Handler struct {
	invoices *invoice.Service
}

func NewHandler(invoices *invoice.Service) *Handler {
	return &Handler{invoices: invoices}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/matrix", h.matrix)
	r.Get("/matrix/bundle", h.bundle)
}

type matrixQuery struct {
	CompanyID string `json:"company_id" validate:"required,uuid"`
	Type      string `json:"type" validate:"required"`
	Year      int    `json:"year" validate:"required,gte=2000,lte=2100"`
	Format    string `json:"format" validate:"omitempty,oneof=json xlsx"`
}

func parseMatrixQuery(r *http.Request, requireType bool) (matrixQuery, error) {
	q := r.URL.Query()

	mq := matrixQuery{
		CompanyID: q.Get("company_id"),
		Type:      q.Get("type"),
		Format:    q.Get("format"),
	}

	if !requireType {
		mq.Type = "-"
	}

	if s := q.Get("year"); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			return mq, &request.ValidationError{Fields: map[string]string{"year": "number"}}
		}

		mq.Year = year
	}

	return mq, request.Validate(mq)
}

func (h *Handler) load(r *http.Request, mq matrixQuery, t invoice.Type) (report.Matrix, error) {
	companyID, err := request.UUIDParam("company_id", mq.CompanyID)
	if err != nil {
		return report.Matrix{}, err
	}

	t = invoice.ParseInvoiceType(string(t))

	invs, err := h.invoices.List(r.Context(), invoice.ListFilter{
		CompanyID: &companyID,
		Year:      &mq.Year,
		Type:      &t,
	})
	if err != nil {
		return report.Matrix{}, err
	}

	return report.BuildMatrix(t, mq.Year, invs), nil
}

// matrix returns one type's indicator matrix as JSON or as a workbook.
func (h *Handler) matrix(w http.ResponseWriter, r *http.Request) {
	mq, err := parseMatrixQuery(r, true)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	m, err := h.load(r, mq, invoice.Type(mq.Type))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if mq.Format != "xlsx" {
		respond.JSON(w, http.StatusOK, m)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, m); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", m.Filename()))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write workbook", "error", err)
	}
}

// bundle zips one workbook per invoice type for the company and year.
func (h *Handler) bundle(w http.ResponseWriter, r *http.Request) {
	mq, err := parseMatrixQuery(r, false)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	matrices := make([]report.Matrix, 0, len(bundleTypes))

	for _, t := range bundleTypes {
		m, err := h.load(r, mq, t)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		matrices = append(matrices, m)
	}

	var buf bytes.Buffer

	zipWriter := zip.NewWriter(&buf)

	for _, m := range matrices {
		zf, err := zipWriter.Create(m.Filename())
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		if err := report.WriteXLSX(zf, m); err != nil {
			respond.Error(w, r, err)
			return
		}
	}

	if err := zipWriter.Close(); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"matrices_%d.zip\"", mq.Year))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write zip", "error", err)
	}
}
