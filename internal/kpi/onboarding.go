package kpi

import (
	"slices"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
)

// MinInvoicesForBaseline is how many invoices of a type are needed before
// a baseline can be generated for it.
const MinInvoicesForBaseline = 3

type State string

const (
	StateNoData           State = "no_data"
	StateDataNotBaselined State = "data_not_baselined"
	StateReady            State = "ready"
)

// OnboardingState is recomputed from scratch on every read. Any baseline makes
// the company ready regardless of counts.
func OnboardingState(counts map[invoice.Type]int, baselines []*Baseline) State {
	if len(baselines) > 0 {
		return StateReady
	}

	if len(EligibleTypes(counts)) > 0 {
		return StateDataNotBaselined
	}

	return StateNoData
}

// EligibleTypes lists, sorted, the types with enough invoices to generate a baseline.
func EligibleTypes(counts map[invoice.Type]int) []invoice.Type {
	var out []invoice.Type

	for t, n := range counts {
		if t != "" && n >= MinInvoicesForBaseline {
			out = append(out, t)
		}
	}

	slices.Sort(out)

	return out
}

// Message is the onboarding prompt shown for a state.
func (s State) Message() string {
	switch s {
	case StateNoData:
		return "Sube al menos 3 meses de facturas para comenzar a medir tus indicadores."
	case StateDataNotBaselined:
		return "Ya tienes suficientes facturas. Selecciona un tipo y genera tus KPIs."
	}

	return ""
}
