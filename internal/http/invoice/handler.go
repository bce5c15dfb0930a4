package invoice

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/ecokpi/internal/auth"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/request"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/respond"
	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.upload)
	r.Get("/", h.list)
	r.Get("/statistics", h.statistics)
	r.Get("/{id}", h.get)
	r.Post("/{id}/reprocess", h.reprocess)
}

// uploadRequest describes a file the client already put in storage.
// Type and year may be left out when the file name carries them.
type uploadRequest struct {
	HeadquartersID uuid.UUID    `json:"headquarters_id" validate:"required"`
	Type           invoice.Type `json:"type"`
	Year           int          `json:"year" validate:"omitempty,gte=2000,lte=2100"`
	FileURL        string       `json:"file_url" validate:"required"`
	FileName       string       `json:"file_name"`
	MimeType       string       `json:"mime_type"`
	Size           int64        `json:"size" validate:"gte=0"`
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	hint := invoice.InfoFromFilename(req.FileName)
	if req.Type == "" {
		req.Type = hint.Type
	}

	if req.Year == 0 {
		req.Year = hint.Year
	}

	params := invoice.UploadParams{
		HeadquartersID: req.HeadquartersID,
		Type:           req.Type,
		Year:           req.Year,
		FileURL:        req.FileURL,
		FileName:       req.FileName,
		MimeType:       req.MimeType,
		Size:           req.Size,
		Token:          auth.BearerToken(r),
	}

	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		if id, err := claims.UserID(); err == nil {
			params.UserID = &id
		}
	}

	inv, err := h.svc.Upload(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(inv))
}

func listFilter(r *http.Request) (invoice.ListFilter, error) {
	var filter invoice.ListFilter

	q := r.URL.Query()

	if s := q.Get("company_id"); s != "" {
		id, err := request.UUIDParam("company_id", s)
		if err != nil {
			return filter, err
		}

		filter.CompanyID = &id
	}

	if s := q.Get("headquarters_id"); s != "" {
		id, err := request.UUIDParam("headquarters_id", s)
		if err != nil {
			return filter, err
		}

		filter.HeadquartersID = &id
	}

	year, err := request.IntQuery(r, "year")
	if err != nil {
		return filter, err
	}

	filter.Year = year

	if s := q.Get("type"); s != "" {
		filter.Type = new(invoice.ParseInvoiceType(s))
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	invs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(invs))
}

// statistics accepts the list filters plus an upload date range.
func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var start, end *time.Time

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			start = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			end = new(t.Add(24*time.Hour - time.Nanosecond))
		}
	}

	invs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toStatisticsResponse(invoice.FilterByDateRange(invs, start, end)))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := request.UUIDParam("id", chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) reprocess(w http.ResponseWriter, r *http.Request) {
	id, err := request.UUIDParam("id", chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	inv, err := h.svc.Reprocess(r.Context(), id, auth.BearerToken(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}
