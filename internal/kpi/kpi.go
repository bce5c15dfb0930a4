package kpi

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
)

type Status string

const (
	StatusWithinTarget Status = "within_target"
	StatusOutOfTarget  Status = "out_of_target"
)

// suggestedTargetFactor pre-fills the target edit form when no target is set.
const suggestedTargetFactor = 0.9

// Baseline is the reference consumption of a company for one invoice type and year.
type Baseline struct {
	ID            uuid.UUID
	CompanyID     uuid.UUID
	InvoiceType   invoice.Type
	Year          int
	BaselineValue float64
	TargetValue   *float64
	Unit          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EffectiveTarget is the target evaluations are measured against.
// An unset target falls back to the baseline value itself.
func (b Baseline) EffectiveTarget() float64 {
	if b.TargetValue != nil {
		return *b.TargetValue
	}

	return b.BaselineValue
}

// SuggestedTarget is the value offered when editing the target. It is never
// used for evaluation.
func (b Baseline) SuggestedTarget() float64 {
	if b.TargetValue != nil {
		return *b.TargetValue
	}

	return b.BaselineValue * suggestedTargetFactor
}

// DisplayUnit falls back to the type's default unit when none was stored.
func (b Baseline) DisplayUnit() string {
	if b.Unit != "" {
		return b.Unit
	}

	return invoice.UnitFor(b.InvoiceType)
}

// Evaluation compares one month's average consumption with the target.
type Evaluation struct {
	Month     string // YYYY-MM
	Value     float64
	Target    float64
	Status    Status
	Deviation float64 // percent of target, positive when under it
}
