package invoice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
)

func TestService_Upload(t *testing.T) {
	hqID := uuid.New()
	userID := uuid.New()

	valid := invoice.UploadParams{
		HeadquartersID: hqID,
		Type:           "energia",
		Year:           2025,
		FileURL:        "https://files.example.com/enel.pdf",
		FileName:       "enel.pdf",
		MimeType:       "application/pdf",
		Size:           2048,
		UserID:         &userID,
		Token:          "jwt",
	}

	type args struct {
		params invoice.UploadParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(repo *invoice.MockRepository, ext *invoice.MockExtractor)
		want      *invoice.Invoice
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{params: valid},
			setupMock: func(repo *invoice.MockRepository, ext *invoice.MockExtractor) {
				ext.EXPECT().
					Extract(gomock.Any(), invoice.ExtractRequest{
						FileURL:        valid.FileURL,
						FileName:       valid.FileName,
						Type:           invoice.TypeEnergy,
						Year:           2025,
						HeadquartersID: hqID,
						UserID:         &userID,
						Token:          "jwt",
					}).
					Return(invoice.Fields{"consumo_kwh": "1.200,50"}, nil)

				repo.EXPECT().
					CreateInvoice(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			want: &invoice.Invoice{
				Type:           invoice.TypeEnergy,
				Year:           2025,
				HeadquartersID: hqID,
				FileURL:        valid.FileURL,
				FileName:       valid.FileName,
				UserID:         &userID,
				Status:         invoice.StatusProcessed,
				Data:           invoice.Fields{"consumo_kwh": "1.200,50"},
			},
		},
		{
			name: "ExtractionFailsNothingSaved",
			args: args{params: valid},
			setupMock: func(_ *invoice.MockRepository, ext *invoice.MockExtractor) {
				ext.EXPECT().
					Extract(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("workflow returned 502"))
			},
			wantErr: invoice.ErrExtraction,
		},
		{
			name: "RejectedFileType",
			args: args{params: func() invoice.UploadParams {
				p := valid
				p.MimeType = "text/plain"

				return p
			}()},
			wantErr: invoice.ErrFileType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			ext := invoice.NewMockExtractor(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, ext)
			}

			svc := invoice.NewService(repo, ext)
			got, err := svc.Upload(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Upload_MissingMetadata(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := invoice.NewService(invoice.NewMockRepository(ctrl), invoice.NewMockExtractor(ctrl))

	_, err := svc.Upload(context.Background(), invoice.UploadParams{FileURL: "x"})

	var verr *invoice.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 3)
}

func TestService_Reprocess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := invoice.NewMockRepository(ctrl)
	ext := invoice.NewMockExtractor(ctrl)

	stored := &invoice.Invoice{
		ID:      id,
		Type:    invoice.TypeWater,
		Year:    2025,
		FileURL: "https://files.example.com/agua.pdf",
		Status:  invoice.StatusUploaded,
	}

	newData := invoice.Fields{"consumo_m3": "35"}

	gomock.InOrder(
		repo.EXPECT().GetInvoice(gomock.Any(), id).Return(stored, nil),
		ext.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(newData, nil),
		repo.EXPECT().UpdateData(gomock.Any(), id, newData, invoice.StatusProcessed).Return(nil),
	)

	svc := invoice.NewService(repo, ext)
	got, err := svc.Reprocess(context.Background(), id, "jwt")
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusProcessed, got.Status)
	assert.Equal(t, newData, got.Data)
}

func TestService_Reprocess_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().GetInvoice(gomock.Any(), gomock.Any()).Return(nil, invoice.ErrNotFound)

	svc := invoice.NewService(repo, invoice.NewMockExtractor(ctrl))
	_, err := svc.Reprocess(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, invoice.ErrNotFound)
}

func TestService_ImportBatch(t *testing.T) {
	hqID := uuid.New()
	created := time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := invoice.NewMockRepository(ctrl)
		repo.EXPECT().
			CreateInvoices(gomock.Any(), gomock.Len(2)).
			Return(nil)

		svc := invoice.NewService(repo, invoice.NewMockExtractor(ctrl))
		got, err := svc.ImportBatch(context.Background(), []invoice.CreateParams{
			{HeadquartersID: hqID, Type: "agua", Year: 2024, Data: invoice.Fields{"consumo_m3": "12"}, CreatedAt: &created},
			{HeadquartersID: hqID, Type: invoice.TypeEnergy, Year: 2024, Data: invoice.Fields{"consumo_kwh": "300"}},
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, invoice.TypeWater, got[0].Type)
		assert.Equal(t, created, got[0].CreatedAt)
		assert.True(t, got[1].CreatedAt.IsZero())
	})

	t.Run("InvalidRowAbortsBatch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := invoice.NewService(invoice.NewMockRepository(ctrl), invoice.NewMockExtractor(ctrl))
		_, err := svc.ImportBatch(context.Background(), []invoice.CreateParams{
			{HeadquartersID: hqID, Type: invoice.TypeEnergy, Year: 2024},
			{HeadquartersID: hqID, Type: invoice.TypeEnergy},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("Empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := invoice.NewService(invoice.NewMockRepository(ctrl), invoice.NewMockExtractor(ctrl))
		got, err := svc.ImportBatch(context.Background(), nil)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}
