package invoice_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
)

func TestUploadParams_Validate(t *testing.T) {
	err := invoice.UploadParams{}.Validate()

	var verr *invoice.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		"headquarters is required",
		"invoice type is required",
		"year is required",
		"file is required",
	}, verr.Problems)

	ok := invoice.UploadParams{
		HeadquartersID: uuid.New(),
		Type:           invoice.TypeWater,
		Year:           2025,
		FileURL:        "https://files.example.com/agua.pdf",
	}
	assert.NoError(t, ok.Validate())
}

func TestValidateFile(t *testing.T) {
	type testCase struct {
		name     string
		mimeType string
		size     int64
		wantErr  error
	}

	tests := []testCase{
		{name: "PDF", mimeType: "application/pdf", size: 1024},
		{name: "UppercaseMime", mimeType: "IMAGE/PNG", size: 1024},
		{name: "Undeclared", mimeType: "", size: 0},
		{name: "WrongType", mimeType: "text/csv", size: 10, wantErr: invoice.ErrFileType},
		{name: "TooLarge", mimeType: "image/jpeg", size: invoice.MaxFileSize + 1, wantErr: invoice.ErrFileSize},
		{name: "ExactlyMax", mimeType: "image/jpeg", size: invoice.MaxFileSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := invoice.ValidateFile(tt.mimeType, tt.size)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestInfoFromFilename(t *testing.T) {
	assert.Equal(t,
		invoice.FilenameInfo{Type: invoice.TypeEnergy, Month: 3, Year: 2025},
		invoice.InfoFromFilename("ENEL_Marzo_2025.pdf"),
	)
	assert.Equal(t,
		invoice.FilenameInfo{Type: invoice.TypeWater, Month: 12, Year: 2024},
		invoice.InfoFromFilename("acueducto-diciembre-2024.png"),
	)
	assert.Equal(t, invoice.FilenameInfo{}, invoice.InfoFromFilename("scan.pdf"))
}
