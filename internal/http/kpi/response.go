package kpi

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
	"github.com/MrJamesThe3rd/ecokpi/internal/kpi"
)

type cardResponse struct {
	Type            invoice.Type `json:"type"`
	BaselineID      uuid.UUID    `json:"baseline_id"`
	CurrentAverage  float64      `json:"current_average"`
	BaselineValue   float64      `json:"baseline_value"`
	Target          float64      `json:"target"`
	SuggestedTarget float64      `json:"suggested_target"`
	Unit            string       `json:"unit"`
	Status          kpi.Status   `json:"status"`
	Reduction       *float64     `json:"reduction_percentage,omitempty"`
}

type evaluationResponse struct {
	Month     string     `json:"month"`
	Value     float64    `json:"value"`
	Target    float64    `json:"target"`
	Status    kpi.Status `json:"status"`
	Deviation float64    `json:"deviation"`
}

type monthlyResponse struct {
	Month   string  `json:"month"`
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

type baselineResponse struct {
	ID            uuid.UUID    `json:"id"`
	CompanyID     uuid.UUID    `json:"company_id"`
	InvoiceType   invoice.Type `json:"invoice_type"`
	Year          int          `json:"year"`
	BaselineValue float64      `json:"baseline_value"`
	TargetValue   *float64     `json:"target_value"`
	Unit          string       `json:"unit"`
}

type dashboardResponse struct {
	CompanyID     uuid.UUID                             `json:"company_id"`
	Year          int                                   `json:"year"`
	State         kpi.State                             `json:"state"`
	Message       string                                `json:"message,omitempty"`
	InvoiceCounts map[invoice.Type]int                  `json:"invoice_counts"`
	EligibleTypes []invoice.Type                        `json:"eligible_types"`
	SelectedType  invoice.Type                          `json:"selected_type,omitempty"`
	Cards         []cardResponse                        `json:"cards"`
	Monthly       map[invoice.Type][]monthlyResponse    `json:"monthly"`
	Evaluations   map[invoice.Type][]evaluationResponse `json:"evaluations"`
	Baselines     []baselineResponse                    `json:"baselines"`
}

func toDashboardResponse(d *kpi.Dashboard) dashboardResponse {
	resp := dashboardResponse{
		CompanyID:     d.CompanyID,
		Year:          d.Year,
		State:         d.State,
		Message:       d.Message(),
		InvoiceCounts: d.InvoiceCounts,
		EligibleTypes: d.EligibleTypes,
		SelectedType:  d.SelectedType,
		Cards:         make([]cardResponse, 0, len(d.Cards)),
		Monthly:       make(map[invoice.Type][]monthlyResponse, len(d.Monthly)),
		Evaluations:   make(map[invoice.Type][]evaluationResponse, len(d.Evaluations)),
		Baselines:     make([]baselineResponse, 0, len(d.Baselines)),
	}

	if resp.EligibleTypes == nil {
		resp.EligibleTypes = []invoice.Type{}
	}

	for _, c := range d.Cards {
		resp.Cards = append(resp.Cards, cardResponse(c))
	}

	for t, aggs := range d.Monthly {
		out := make([]monthlyResponse, 0, len(aggs))
		for _, a := range aggs {
			out = append(out, monthlyResponse{Month: a.Month, Total: a.Total, Count: a.Count, Average: a.Average()})
		}

		resp.Monthly[t] = out
	}

	for t, evals := range d.Evaluations {
		out := make([]evaluationResponse, 0, len(evals))
		for _, e := range evals {
			out = append(out, evaluationResponse(e))
		}

		resp.Evaluations[t] = out
	}

	for _, b := range d.Baselines {
		resp.Baselines = append(resp.Baselines, toBaselineResponse(b))
	}

	return resp
}

func toBaselineResponse(b *kpi.Baseline) baselineResponse {
	return baselineResponse{
		ID:            b.ID,
		CompanyID:     b.CompanyID,
		InvoiceType:   b.InvoiceType,
		Year:          b.Year,
		BaselineValue: b.BaselineValue,
		TargetValue:   b.TargetValue,
		Unit:          b.DisplayUnit(),
	}
}
