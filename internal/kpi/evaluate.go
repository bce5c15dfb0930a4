package kpi

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrTargetNotPositive     = errors.New("must be a positive number")
	ErrTargetNotBelowAverage = errors.New("goal must be below current average to achieve reduction")
)

// TargetError rejects a proposed target before anything is written.
type TargetError struct {
	Value float64
	Err   error
}

func (e *TargetError) Error() string {
	return e.Err.Error()
}

func (e *TargetError) Unwrap() error {
	return e.Err
}

// GenerateEvaluations derives one evaluation per month with data, oldest first.
// Months missing from monthly produce no entry.
func GenerateEvaluations(monthly map[string]MonthlyAggregate, b Baseline) []Evaluation {
	target := b.EffectiveTarget()

	aggs := SortedAggregates(monthly)
	out := make([]Evaluation, 0, len(aggs))

	for _, agg := range aggs {
		if agg.Count == 0 {
			continue
		}

		value := decimal.NewFromFloat(agg.Total).
			Div(decimal.NewFromInt(int64(agg.Count))).
			Round(2).
			InexactFloat64()

		out = append(out, Evaluation{
			Month:     agg.Month,
			Value:     value,
			Target:    target,
			Status:    Classify(value, target),
			Deviation: Deviation(value, target),
		})
	}

	return out
}

func Classify(value, target float64) Status {
	if value <= target {
		return StatusWithinTarget
	}

	return StatusOutOfTarget
}

// Deviation is how far value sits under target, as a percentage of target
// rounded to two decimals. Negative means over target. Zero when target is zero.
func Deviation(value, target float64) float64 {
	if target == 0 {
		return 0
	}

	t := decimal.NewFromFloat(target)

	return t.Sub(decimal.NewFromFloat(value)).
		Div(t).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}

// ReductionPercentage is the reduction target represents against the current
// average. ok is false when the average is not positive.
func ReductionPercentage(currentAverage, target float64) (float64, bool) {
	if !(currentAverage > 0) {
		return 0, false
	}

	avg := decimal.NewFromFloat(currentAverage)

	return avg.Sub(decimal.NewFromFloat(target)).
		Div(avg).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64(), true
}

// ValidateTarget accepts a target only if it is positive and strictly below
// the current average.
func ValidateTarget(value, currentAverage float64) error {
	if math.IsNaN(value) || value <= 0 {
		return &TargetError{Value: value, Err: ErrTargetNotPositive}
	}

	if !(value < currentAverage) {
		return &TargetError{Value: value, Err: ErrTargetNotBelowAverage}
	}

	return nil
}
