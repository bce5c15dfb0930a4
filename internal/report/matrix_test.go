package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
	"github.com/MrJamesThe3rd/ecokpi/internal/report"
)

func sampleInvoices() []*invoice.Invoice {
	return []*invoice.Invoice{
		{
			ID:        uuid.New(),
			Type:      invoice.TypeEnergy,
			CreatedAt: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
			Data: invoice.Fields{
				"nombre_cliente":      "Acme SAS",
				"numero_cliente":      "55021",
				"periodo_facturado":   "ENE/2025",
				"consumo_kwh":         "1.200,50",
				"costo_total_energia": "$ 450.000",
			},
		},
		{
			ID:        uuid.New(),
			Type:      invoice.TypeEnergy,
			CreatedAt: time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
			Data:      invoice.Fields{"consumo_m3": "30"},
		},
	}
}

func TestBuildMatrix(t *testing.T) {
	m := report.BuildMatrix("energia", 2025, sampleInvoices())

	assert.Equal(t, invoice.TypeEnergy, m.Type)
	assert.Equal(t, "kWh", m.Unit)
	require.Len(t, m.Rows, 2)

	newest := m.Rows[0]
	assert.Equal(t, report.Row{
		ID:           newest.ID,
		UploadedAt:   time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
		ClientName:   "N/D",
		ClientNumber: "N/D",
		Period:       "N/D",
		Consumption:  0,
		Unit:         "kWh",
	}, newest, "energy rows ignore m3 consumption")

	oldest := m.Rows[1]
	assert.Equal(t, "Acme SAS", oldest.ClientName)
	assert.Equal(t, 1200.5, oldest.Consumption)
	assert.Equal(t, "$ 450.000", oldest.TotalText)

	assert.Equal(t, "matriz_Energia_2025.xlsx", m.Filename())
	assert.Equal(t, "matriz_Agua_2024.xlsx", report.Matrix{Type: invoice.TypeWater, Year: 2024}.Filename())
}

func TestBuildMatrix_Minutes(t *testing.T) {
	m := report.BuildMatrix(invoice.TypeMinutes, 2025, []*invoice.Invoice{
		{Data: invoice.Fields{"consumo_kwh": "10", "costo_total": "99"}},
	})

	assert.Equal(t, "unidades", m.Unit)
	require.Len(t, m.Rows, 1)
	assert.Equal(t, 0.0, m.Rows[0].Consumption)
	assert.Equal(t, "99", m.Rows[0].TotalText)
}

func TestWriteXLSX(t *testing.T) {
	m := report.BuildMatrix(invoice.TypeEnergy, 2025, sampleInvoices())

	var buf bytes.Buffer
	require.NoError(t, report.WriteXLSX(&buf, m))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Matriz")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Cliente", rows[0][1])
	assert.Equal(t, "2025-01-05", rows[2][0])
	assert.Equal(t, "Acme SAS", rows[2][1])
	assert.Equal(t, "1200.5", rows[2][4])
	assert.Equal(t, "kWh", rows[2][5])
}
