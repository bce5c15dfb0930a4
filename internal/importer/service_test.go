package importer_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/ecokpi/internal/encoding"
	"github.com/MrJamesThe3rd/ecokpi/internal/importer"
	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
)

func TestService_Import(t *testing.T) {
	// "Año" and "Energía" in Windows-1252.
	latin1 := append([]byte("sede_id;tipo;A\xf1o;consumo_kwh\n"), []byte(hqID+";Energ\xeda;2025;1.200,50\n")...)

	type testCase struct {
		name      string
		content   []byte
		setupMock func(m *importer.MockInvoiceImporter)
		wantErr   error
	}

	tests := []testCase{
		{
			name:    "Success",
			content: latin1,
			setupMock: func(m *importer.MockInvoiceImporter) {
				m.EXPECT().ImportBatch(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, params []invoice.CreateParams) ([]*invoice.Invoice, error) {
						require.Len(t, params, 1)
						assert.Equal(t, invoice.TypeEnergy, params[0].Type)
						assert.Equal(t, "historico.csv", params[0].FileName)

						return []*invoice.Invoice{{ID: uuid.New(), Type: params[0].Type}}, nil
					})
			},
		},
		{
			name:    "HeaderOnly",
			content: []byte("sede_id;tipo;año\n"),
			wantErr: importer.ErrEmptyFile,
		},
		{
			name:    "ParseError",
			content: []byte("nada;que;ver\n"),
			wantErr: importer.ErrNoProfile,
		},
		{
			name:    "StoreError",
			content: latin1,
			setupMock: func(m *importer.MockInvoiceImporter) {
				m.EXPECT().ImportBatch(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantErr: errors.New("import historico.csv: db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mock := importer.NewMockInvoiceImporter(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(mock)
			}

			svc := importer.NewService(mock)

			res, err := svc.Import(context.Background(), bytes.NewReader(tt.content), "historico.csv")
			if tt.wantErr != nil {
				if errors.Is(err, tt.wantErr) {
					return
				}

				assert.EqualError(t, err, tt.wantErr.Error())

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, encoding.UTF8, res.Charset)
			assert.Equal(t, "sedes", res.Profile)
			assert.Len(t, res.Invoices, 1)
		})
	}
}
