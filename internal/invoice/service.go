package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrExtraction marks failures of the external extraction workflow.
var ErrExtraction = errors.New("invoice extraction failed")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	CreateInvoices(ctx context.Context, invs []*Invoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	UpdateData(ctx context.Context, id uuid.UUID, data Fields, status Status) error
}

// Extractor turns a stored file into a field bag.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) (Fields, error)
}

type ExtractRequest struct {
	FileURL        string
	FileName       string
	Type           Type
	Year           int
	HeadquartersID uuid.UUID
	UserID         *uuid.UUID
	Token          string
}

type Service struct {
	repo      Repository
	extractor Extractor
}

func NewService(repo Repository, extractor Extractor) *Service {
	return &Service{repo: repo, extractor: extractor}
}

// ListFilter narrows invoice listings. CompanyID filters through the
// owning headquarters.
type ListFilter struct {
	CompanyID      *uuid.UUID
	HeadquartersID *uuid.UUID
	Year           *int
	Type           *Type
}

type UploadParams struct {
	HeadquartersID uuid.UUID
	Type           Type
	Year           int
	FileURL        string
	FileName       string
	MimeType       string
	Size           int64
	UserID         *uuid.UUID
	Token          string
}

// CreateParams describes an invoice whose fields were extracted elsewhere.
type CreateParams struct {
	HeadquartersID uuid.UUID
	Type           Type
	Year           int
	FileName       string
	Data           Fields
	CreatedAt      *time.Time
}

// Upload extracts the fields of an already stored file and saves the invoice.
// Nothing is persisted when extraction fails.
func (s *Service) Upload(ctx context.Context, params UploadParams) (*Invoice, error) {
	params.Type = ParseInvoiceType(string(params.Type))

	if err := params.Validate(); err != nil {
		return nil, err
	}

	if err := ValidateFile(params.MimeType, params.Size); err != nil {
		return nil, err
	}

	data, err := s.extractor.Extract(ctx, ExtractRequest{
		FileURL:        params.FileURL,
		FileName:       params.FileName,
		Type:           params.Type,
		Year:           params.Year,
		HeadquartersID: params.HeadquartersID,
		UserID:         params.UserID,
		Token:          params.Token,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	inv := &Invoice{
		Type:           params.Type,
		Year:           params.Year,
		HeadquartersID: params.HeadquartersID,
		FileURL:        params.FileURL,
		FileName:       params.FileName,
		UserID:         params.UserID,
		Status:         StatusProcessed,
		Data:           data,
	}

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// Reprocess runs extraction again for a stored invoice and replaces its fields.
func (s *Service) Reprocess(ctx context.Context, id uuid.UUID, token string) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.extractor.Extract(ctx, ExtractRequest{
		FileURL:        inv.FileURL,
		FileName:       inv.FileName,
		Type:           inv.Type,
		Year:           inv.Year,
		HeadquartersID: inv.HeadquartersID,
		UserID:         inv.UserID,
		Token:          token,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	if err := s.repo.UpdateData(ctx, id, data, StatusProcessed); err != nil {
		return nil, err
	}

	inv.Data = data
	inv.Status = StatusProcessed

	return inv, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, filter)
}

// ImportBatch stores invoices whose fields are already known, all or nothing.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) ([]*Invoice, error) {
	if len(params) == 0 {
		return nil, nil
	}

	invs := make([]*Invoice, 0, len(params))

	for i, p := range params {
		check := UploadParams{HeadquartersID: p.HeadquartersID, Type: p.Type, Year: p.Year, FileURL: "-"}
		if err := check.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		inv := &Invoice{
			Type:           ParseInvoiceType(string(p.Type)),
			Year:           p.Year,
			HeadquartersID: p.HeadquartersID,
			FileName:       p.FileName,
			Status:         StatusProcessed,
			Data:           p.Data,
		}

		if p.CreatedAt != nil {
			inv.CreatedAt = *p.CreatedAt
		}

		invs = append(invs, inv)
	}

	if err := s.repo.CreateInvoices(ctx, invs); err != nil {
		return nil, fmt.Errorf("create invoices: %w", err)
	}

	return invs, nil
}
