package invoice

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("invoice not found")

// Type is the categorical kind of utility bill.
type Type string

const (
	TypeEnergy  Type = "Energía"
	TypeWater   Type = "Agua"
	TypeMinutes Type = "Actas"
)

// Status tracks where an uploaded invoice is in its processing lifecycle.
type Status string

const (
	StatusUploaded  Status = "uploaded"
	StatusProcessed Status = "processed"
)

// Fields is the loosely-typed bag produced by the extraction workflow.
// Keys and value shapes vary by utility provider.
type Fields map[string]any

// Value implements driver.Valuer so Fields can be written to a jsonb column.
func (f Fields) Value() (driver.Value, error) {
	if f == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(f)
}

// Scan implements sql.Scanner for jsonb columns.
func (f *Fields) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		*f = Fields{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scanning fields: unsupported type %T", src)
	}

	out := Fields{}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if err := dec.Decode(&out); err != nil {
		return fmt.Errorf("scanning fields: %w", err)
	}

	*f = out

	return nil
}

// Invoice is one uploaded utility bill.
type Invoice struct {
	ID             uuid.UUID
	Type           Type
	Year           int // filing year chosen at upload, may differ from the billed period
	HeadquartersID uuid.UUID
	Headquarters   *Headquarters // Loaded via JOIN
	FileURL        string
	FileName       string
	UserID         *uuid.UUID
	Status         Status
	Data           Fields
	CreatedAt      time.Time
}

// Headquarters is a company site; every invoice belongs to exactly one.
type Headquarters struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Name      string
}
