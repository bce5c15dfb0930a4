package kpi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ecokpi/internal/auth"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/request"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/respond"
	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
	"github.com/MrJamesThe3rd/ecokpi/internal/kpi"
)

type Handler struct {
	svc *kpi.Service
	now func() time.Time
}

func NewHandler(svc *kpi.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/companies/{companyID}/kpis", h.dashboard)
	r.Post("/companies/{companyID}/kpis/generate", h.generate)
	r.Patch("/kpis/baselines/{id}/target", h.updateTarget)
}

type generateRequest struct {
	Type invoice.Type `json:"type" validate:"required"`
	Year int          `json:"year" validate:"required,gte=2000,lte=2100"`
}

type updateTargetRequest struct {
	TargetValue *float64 `json:"target_value" validate:"required"`
}

// dashboard defaults the year to the current one.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	companyID, err := request.UUIDParam("companyID", chi.URLParam(r, "companyID"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	year, err := request.IntQuery(r, "year")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if year == nil {
		year = new(h.now().Year())
	}

	selected := invoice.ParseInvoiceType(r.URL.Query().Get("type"))

	d, err := h.svc.Dashboard(r.Context(), companyID, *year, selected)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDashboardResponse(d))
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	companyID, err := request.UUIDParam("companyID", chi.URLParam(r, "companyID"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req generateRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	d, err := h.svc.Generate(r.Context(), kpi.GenerateParams{
		CompanyID: companyID,
		Type:      invoice.ParseInvoiceType(string(req.Type)),
		Year:      req.Year,
		Token:     auth.BearerToken(r),
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDashboardResponse(d))
}

func (h *Handler) updateTarget(w http.ResponseWriter, r *http.Request) {
	id, err := request.UUIDParam("id", chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateTargetRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	b, err := h.svc.UpdateTarget(r.Context(), id, *req.TargetValue)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toBaselineResponse(b))
}
