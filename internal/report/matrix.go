package report

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
)

const notAvailable = "N/D"

// Row is one invoice as shown in the indicator matrix.
type Row struct {
	ID           uuid.UUID `json:"id"`
	UploadedAt   time.Time `json:"uploaded_at"`
	ClientName   string    `json:"client_name"`
	ClientNumber string    `json:"client_number"`
	Period       string    `json:"period"`
	Consumption  float64   `json:"consumption"`
	Unit         string    `json:"unit"`
	TotalText    string    `json:"total_text"`
}

type Matrix struct {
	Type invoice.Type `json:"type"`
	Year int          `json:"year"`
	Unit string       `json:"unit"`
	Rows []Row        `json:"rows"`
}

// BuildMatrix lays out invoices of type t, newest upload first. Consumption
// is read from the type's own field only; minutes have none.
func BuildMatrix(t invoice.Type, year int, invoices []*invoice.Invoice) Matrix {
	t = invoice.ParseInvoiceType(string(t))

	m := Matrix{
		Type: t,
		Year: year,
		Unit: invoice.UnitFor(t),
		Rows: make([]Row, 0, len(invoices)),
	}

	for _, inv := range invoice.SortByDate(invoices, false) {
		details := invoice.Adapt(t, inv.Data)
		common := details.Common()

		consumption, _ := details.Consumption()

		m.Rows = append(m.Rows, Row{
			ID:           inv.ID,
			UploadedAt:   inv.CreatedAt,
			ClientName:   orNotAvailable(common.ClientName),
			ClientNumber: orNotAvailable(common.ClientNumber),
			Period:       orNotAvailable(common.BillingPeriod),
			Consumption:  consumption,
			Unit:         m.Unit,
			TotalText:    common.TotalText,
		})
	}

	return m
}

func orNotAvailable(s string) string {
	if s == "" {
		return notAvailable
	}

	return s
}

// Filename is the suggested download name for the spreadsheet.
func (m Matrix) Filename() string {
	return fmt.Sprintf("matriz_%s_%d.xlsx", asciiName(string(m.Type)), m.Year)
}

func asciiName(s string) string {
	out := make([]rune, 0, len(s))

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == 'í' || r == 'Í':
			out = append(out, 'i')
		default:
			out = append(out, '_')
		}
	}

	return string(out)
}

var matrixHeaders = []string{"Fecha de carga", "Cliente", "Número de cliente", "Periodo", "Consumo", "Unidad", "Costo total"}

// WriteXLSX renders the matrix as a single-sheet workbook.
func WriteXLSX(w io.Writer, m Matrix) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Matriz"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, h := range matrixHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)

		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	last, _ := excelize.CoordinatesToCellName(len(matrixHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, row := range m.Rows {
		values := []any{
			row.UploadedAt.Format(time.DateOnly),
			row.ClientName,
			row.ClientNumber,
			row.Period,
			row.Consumption,
			row.Unit,
			row.TotalText,
		}

		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)

			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("writing row %d: %w", i+1, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}
