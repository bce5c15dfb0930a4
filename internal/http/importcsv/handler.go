package importcsv

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/ecokpi/internal/encoding"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/request"
	"github.com/MrJamesThe3rd/ecokpi/internal/http/respond"
	"github.com/MrJamesThe3rd/ecokpi/internal/importer"
	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/preview", h.preview)
}

type rowDTO struct {
	HeadquartersID uuid.UUID      `json:"headquarters_id"`
	Type           invoice.Type   `json:"type"`
	Year           int            `json:"year"`
	CreatedAt      *time.Time     `json:"created_at,omitempty"`
	Data           invoice.Fields `json:"data"`
}

type previewResponse struct {
	Charset encoding.Charset `json:"charset"`
	Profile string           `json:"profile"`
	Rows    []rowDTO         `json:"rows"`
}

type importResponse struct {
	Charset  encoding.Charset `json:"charset"`
	Profile  string           `json:"profile"`
	Imported int              `json:"imported"`
	IDs      []uuid.UUID      `json:"ids"`
}

func formFile(w http.ResponseWriter, r *http.Request) (multipart.File, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, "", &request.ValidationError{Fields: map[string]string{"form": err.Error()}}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", &request.ValidationError{Fields: map[string]string{"file": "required"}}
	}

	return file, header.Filename, nil
}

// preview parses the file and shows what would be stored.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	file, _, err := formFile(w, r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	defer file.Close()

	batch, err := h.importSvc.Parse(file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := previewResponse{
		Charset: batch.Charset,
		Profile: batch.Profile,
		Rows:    make([]rowDTO, 0, len(batch.Rows)),
	}

	for _, p := range batch.Rows {
		resp.Rows = append(resp.Rows, rowDTO{
			HeadquartersID: p.HeadquartersID,
			Type:           p.Type,
			Year:           p.Year,
			CreatedAt:      p.CreatedAt,
			Data:           p.Data,
		})
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	file, name, err := formFile(w, r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	defer file.Close()

	result, err := h.importSvc.Import(r.Context(), file, name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := importResponse{
		Charset:  result.Charset,
		Profile:  result.Profile,
		Imported: len(result.Invoices),
		IDs:      make([]uuid.UUID, 0, len(result.Invoices)),
	}

	for _, inv := range result.Invoices {
		resp.IDs = append(resp.IDs, inv.ID)
	}

	respond.JSON(w, http.StatusCreated, resp)
}
