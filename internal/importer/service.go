package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	enc "github.com/MrJamesThe3rd/ecokpi/internal/encoding"
	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
)

var ErrEmptyFile = errors.New("file contains no invoice rows")

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type InvoiceImporter interface {
	ImportBatch(ctx context.Context, params []invoice.CreateParams) ([]*invoice.Invoice, error)
}

type Service struct {
	parser   *Parser
	invoices InvoiceImporter
}

func NewService(invoices InvoiceImporter) *Service {
	return &Service{
		parser:   NewParser(),
		invoices: invoices,
	}
}

// Result summarises a stored backfill.
type Result struct {
	Charset  enc.Charset        `json:"charset"`
	Profile  string             `json:"profile"`
	Invoices []*invoice.Invoice `json:"invoices"`
}

// Parse reads a backfill file without storing anything.
func (s *Service) Parse(r io.Reader) (*Batch, error) {
	return s.parser.Parse(r)
}

// Import parses the file and stores every row, or none when a row is invalid.
func (s *Service) Import(ctx context.Context, r io.Reader, fileName string) (*Result, error) {
	batch, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", fileName, err)
	}

	if len(batch.Rows) == 0 {
		return nil, ErrEmptyFile
	}

	for i := range batch.Rows {
		batch.Rows[i].FileName = fileName
	}

	invs, err := s.invoices.ImportBatch(ctx, batch.Rows)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", fileName, err)
	}

	slog.Info("invoice backfill imported",
		"file", fileName,
		"charset", batch.Charset,
		"profile", batch.Profile,
		"count", len(invs),
	)

	return &Result{
		Charset:  batch.Charset,
		Profile:  batch.Profile,
		Invoices: invs,
	}, nil
}
