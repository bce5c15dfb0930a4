package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	enc "github.com/MrJamesThe3rd/ecokpi/internal/encoding"
	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
)

var ErrNoProfile = errors.New("no matching column layout found: expected sede_id/año or headquarters_id/year columns")

var createdAtLayouts = []string{time.RFC3339, time.DateOnly, "02/01/2006"}

var delimiters = []rune{';', ',', '\t'}

// Batch is the parsed content of one backfill file.
type Batch struct {
	Charset   enc.Charset
	Profile   string
	Delimiter rune
	Rows      []invoice.CreateParams
}

// Parser reads spreadsheet exports of invoices whose fields were extracted
// before the workflow existed.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) (*Batch, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	content, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	delim := detectDelimiter(content)

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, header, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, ErrNoProfile
	}

	params, err := parseRows(profile, header, rows[headerIdx+1:], headerIdx+1)
	if err != nil {
		return nil, err
	}

	return &Batch{
		Charset:   charset,
		Profile:   profile.Name,
		Delimiter: delim,
		Rows:      params,
	}, nil
}

// detectDelimiter picks the candidate that appears most often on the first
// non-blank line. Semicolon wins ties since Spanish exports use the comma
// as decimal separator.
func detectDelimiter(content []byte) rune {
	var line string

	for l := range strings.Lines(string(content)) {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}

	best, bestCount := delimiters[0], 0

	for _, d := range delimiters {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}

	return best
}

// colIndex maps normalised header names to their position.
type colIndex map[string]int

func (c colIndex) find(names ...string) (int, bool) {
	for _, n := range names {
		if i, ok := c[n]; ok {
			return i, true
		}
	}

	return -1, false
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "_")
}

// detectProfile scans for the first row that carries every required column
// of a known profile.
func detectProfile(rows [][]string) (*Profile, []string, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex, len(row))
		header := make([]string, len(row))

		for i, cell := range row {
			name := normalizeHeader(cell)
			header[i] = name

			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], header, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, alternatives := range p.requiredCols() {
		if _, ok := cols.find(alternatives...); !ok {
			return false
		}
	}

	return true
}

func parseRows(p *Profile, header []string, rows [][]string, headerRowNum int) ([]invoice.CreateParams, error) {
	var params []invoice.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		if isBlank(row) {
			continue
		}

		param, err := parseRow(p, header, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		params = append(params, param)
	}

	return params, nil
}

func parseRow(p *Profile, header []string, row []string) (invoice.CreateParams, error) {
	var (
		param invoice.CreateParams
		year  string
		typ   string
		date  string
	)

	param.Data = make(invoice.Fields)

	for i, name := range header {
		value := cellValue(row, i)
		if name == "" || value == "" {
			continue
		}

		switch {
		case name == p.HeadquartersCol:
			id, err := uuid.Parse(value)
			if err != nil {
				return param, fmt.Errorf("invalid headquarters id %q", value)
			}

			param.HeadquartersID = id
		case name == p.TypeCol:
			typ = value
		case name == p.CreatedAtCol:
			date = value
		case p.claims(name):
			year = value
		default:
			param.Data[name] = value
		}
	}

	if param.HeadquartersID == uuid.Nil {
		return param, errors.New("missing headquarters id")
	}

	t, err := resolveType(typ, param.Data)
	if err != nil {
		return param, err
	}

	param.Type = t

	y, err := resolveYear(year, param.Data)
	if err != nil {
		return param, err
	}

	param.Year = y

	if date != "" {
		createdAt, err := parseCreatedAt(date)
		if err != nil {
			return param, err
		}

		param.CreatedAt = &createdAt
	}

	return param, nil
}

// resolveType falls back to the consumption field present when the type
// column is absent or empty.
func resolveType(raw string, data invoice.Fields) (invoice.Type, error) {
	if raw != "" {
		return invoice.ParseInvoiceType(raw), nil
	}

	if _, ok := data["consumo_kwh"]; ok {
		return invoice.TypeEnergy, nil
	}

	if _, ok := data["consumo_m3"]; ok {
		return invoice.TypeWater, nil
	}

	return "", errors.New("missing invoice type")
}

// resolveYear falls back to the year printed in the billing period.
func resolveYear(raw string, data invoice.Fields) (int, error) {
	if raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y <= 0 {
			return 0, fmt.Errorf("invalid year %q", raw)
		}

		return y, nil
	}

	if periodo, ok := data["periodo_facturado"].(string); ok {
		if y, ok := invoice.YearFromPeriodo(periodo); ok {
			return y, nil
		}
	}

	return 0, errors.New("missing year")
}

func parseCreatedAt(s string) (time.Time, error) {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid upload date %q", s)
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
