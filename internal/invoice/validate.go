package invoice

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const MaxFileSize = 10 << 20

var allowedMimeTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/jpg",
	"image/png",
}

var (
	ErrFileType = errors.New("file type not allowed, only PDF, JPG and PNG are accepted")
	ErrFileSize = fmt.Errorf("file too large, maximum size is %dMB", MaxFileSize>>20)
)

// ValidationError lists every problem found with an upload request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, ", ")
}

// Validate checks the metadata required before extraction can run.
func (p UploadParams) Validate() error {
	var problems []string

	if p.HeadquartersID == uuid.Nil {
		problems = append(problems, "headquarters is required")
	}

	if p.Type == "" {
		problems = append(problems, "invoice type is required")
	}

	if p.Year == 0 {
		problems = append(problems, "year is required")
	}

	if p.FileURL == "" {
		problems = append(problems, "file is required")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}

	return nil
}

// ValidateFile checks the declared MIME type and size of an uploaded file.
// Zero values are not checked.
func ValidateFile(mimeType string, size int64) error {
	if mimeType != "" && !slices.Contains(allowedMimeTypes, strings.ToLower(mimeType)) {
		return ErrFileType
	}

	if size > MaxFileSize {
		return ErrFileSize
	}

	return nil
}

// FilenameInfo holds hints guessed from an uploaded file's name.
type FilenameInfo struct {
	Type  Type
	Month int
	Year  int
}

var (
	filenameYear = regexp.MustCompile(`20\d{2}`)

	spanishMonths = []string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	}
)

// InfoFromFilename guesses type, month and year from names like
// "enel_marzo_2025.pdf". Missing parts stay zero.
func InfoFromFilename(name string) FilenameInfo {
	var info FilenameInfo

	lower := strings.ToLower(name)

	switch {
	case containsAny(lower, "enel", "energia", "energy"):
		info.Type = TypeEnergy
	case containsAny(lower, "agua", "water", "acueducto"):
		info.Type = TypeWater
	case containsAny(lower, "acta", "minutes"):
		info.Type = TypeMinutes
	}

	for i, month := range spanishMonths {
		if strings.Contains(lower, month) {
			info.Month = i + 1
			break
		}
	}

	if y := filenameYear.FindString(name); y != "" {
		info.Year, _ = strconv.Atoi(y)
	}

	return info
}
