package kpi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
)

var (
	ErrBaselineNotFound     = errors.New("kpi baseline not found")
	ErrNoInvoices           = errors.New("no invoices")
	ErrGenerationInProgress = errors.New("kpi generation already in progress")
	ErrGeneration           = errors.New("kpi generation failed")
)

// evaluationHistory is how many persisted monthly evaluations are read per type.
const evaluationHistory = 12

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=kpi
type Repository interface {
	ListBaselines(ctx context.Context, companyID uuid.UUID, year int) ([]*Baseline, error)
	GetBaseline(ctx context.Context, id uuid.UUID) (*Baseline, error)
	UpdateTarget(ctx context.Context, id uuid.UUID, target float64) error
	// ListMonthlyEvaluations returns the most recent evaluations, newest first.
	ListMonthlyEvaluations(ctx context.Context, companyID uuid.UUID, t invoice.Type, limit int) ([]Evaluation, error)
	// BeginGeneration fails with ErrGenerationInProgress when another
	// generation holds the same company, type and year.
	BeginGeneration(ctx context.Context, companyID uuid.UUID, t invoice.Type, year int) (GenerationLock, error)
}

type GenerationLock interface {
	Release() error
}

// InvoiceSource lists the invoices KPIs are computed from.
type InvoiceSource interface {
	List(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error)
}

// Generator delegates baseline computation to the external workflow. On
// success a new or updated baseline is expected in the store.
type Generator interface {
	GenerateKPIs(ctx context.Context, req GenerateRequest) error
}

type GenerateRequest struct {
	CompanyID uuid.UUID
	Type      invoice.Type
	Year      int
	Invoices  []*invoice.Invoice
	Token     string
}

type Service struct {
	repo      Repository
	invoices  InvoiceSource
	generator Generator
}

func NewService(repo Repository, invoices InvoiceSource, generator Generator) *Service {
	return &Service{repo: repo, invoices: invoices, generator: generator}
}

// Card summarises one baselined type.
type Card struct {
	Type            invoice.Type
	BaselineID      uuid.UUID
	CurrentAverage  float64
	BaselineValue   float64
	Target          float64
	SuggestedTarget float64
	Unit            string
	Status          Status
	Reduction       *float64
}

type Dashboard struct {
	CompanyID       uuid.UUID
	Year            int
	State           State
	InvoiceCounts   map[invoice.Type]int
	EligibleTypes   []invoice.Type
	Baselines       []*Baseline
	Cards           []Card
	CurrentAverages map[invoice.Type]float64
	Monthly         map[invoice.Type][]MonthlyAggregate
	Evaluations     map[invoice.Type][]Evaluation
	SelectedType    invoice.Type
}

// Message is the onboarding prompt, empty once the dashboard is ready.
func (d *Dashboard) Message() string {
	return d.State.Message()
}

// Card returns the card of type t, if it has a baseline.
func (d *Dashboard) Card(t invoice.Type) (Card, bool) {
	for _, c := range d.Cards {
		if c.Type == t {
			return c, true
		}
	}

	return Card{}, false
}

// Dashboard loads everything the KPI view needs for a company and year.
// selected picks the highlighted type; empty defaults to the first baseline's.
func (s *Service) Dashboard(ctx context.Context, companyID uuid.UUID, year int, selected invoice.Type) (*Dashboard, error) {
	var (
		invoices  []*invoice.Invoice
		baselines []*Baseline
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		invoices, err = s.invoices.List(gctx, invoice.ListFilter{CompanyID: &companyID})
		if err != nil {
			return fmt.Errorf("listing invoices: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error

		baselines, err = s.repo.ListBaselines(gctx, companyID, year)
		if err != nil {
			return fmt.Errorf("listing baselines: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	persisted, err := s.persistedEvaluations(ctx, companyID, baselines)
	if err != nil {
		return nil, err
	}

	counts := CountByType(invoices)

	var ofYear []*invoice.Invoice

	for _, inv := range invoices {
		if inv.Year == year {
			ofYear = append(ofYear, inv)
		}
	}

	d := &Dashboard{
		CompanyID:       companyID,
		Year:            year,
		State:           OnboardingState(counts, baselines),
		InvoiceCounts:   counts,
		EligibleTypes:   EligibleTypes(counts),
		Baselines:       baselines,
		CurrentAverages: make(map[invoice.Type]float64),
		Monthly:         make(map[invoice.Type][]MonthlyAggregate),
		Evaluations:     make(map[invoice.Type][]Evaluation),
	}

	monthlyByType := make(map[invoice.Type]map[string]MonthlyAggregate)

	for t, group := range GroupByType(ofYear) {
		d.CurrentAverages[t] = AverageConsumption(group)
		monthlyByType[t] = GroupByMonth(group)
		d.Monthly[t] = SortedAggregates(monthlyByType[t])
	}

	for _, b := range baselines {
		evals := persisted[b.InvoiceType]
		if len(evals) == 0 {
			evals = GenerateEvaluations(monthlyByType[b.InvoiceType], *b)
		}

		d.Evaluations[b.InvoiceType] = evals
		d.Cards = append(d.Cards, newCard(b, d.CurrentAverages[b.InvoiceType]))
	}

	d.SelectedType = selected
	if _, ok := d.Card(selected); !ok && len(baselines) > 0 {
		d.SelectedType = baselines[0].InvoiceType
	}

	return d, nil
}

// persistedEvaluations reads stored evaluations for every baselined type,
// returned oldest first.
func (s *Service) persistedEvaluations(ctx context.Context, companyID uuid.UUID, baselines []*Baseline) (map[invoice.Type][]Evaluation, error) {
	results := make([][]Evaluation, len(baselines))

	g, gctx := errgroup.WithContext(ctx)

	for i, b := range baselines {
		g.Go(func() error {
			evals, err := s.repo.ListMonthlyEvaluations(gctx, companyID, b.InvoiceType, evaluationHistory)
			if err != nil {
				return fmt.Errorf("listing evaluations for %s: %w", b.InvoiceType, err)
			}

			results[i] = evals

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[invoice.Type][]Evaluation, len(baselines))

	for i, b := range baselines {
		ascending := slices.Clone(results[i])
		slices.Reverse(ascending)

		out[b.InvoiceType] = ascending
	}

	return out, nil
}

func newCard(b *Baseline, currentAverage float64) Card {
	target := b.EffectiveTarget()

	c := Card{
		Type:            b.InvoiceType,
		BaselineID:      b.ID,
		CurrentAverage:  currentAverage,
		BaselineValue:   b.BaselineValue,
		Target:          target,
		SuggestedTarget: b.SuggestedTarget(),
		Unit:            b.DisplayUnit(),
		Status:          Classify(currentAverage, target),
	}

	if r, ok := ReductionPercentage(currentAverage, target); ok {
		c.Reduction = &r
	}

	return c
}

type GenerateParams struct {
	CompanyID uuid.UUID
	Type      invoice.Type
	Year      int
	Token     string
}

// Generate asks the workflow to build the baseline of one type from that
// year's invoices, then reloads the dashboard. The workflow call is not
// idempotent and is never retried.
func (s *Service) Generate(ctx context.Context, params GenerateParams) (*Dashboard, error) {
	all, err := s.invoices.List(ctx, invoice.ListFilter{CompanyID: &params.CompanyID, Year: &params.Year})
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	var batch []*invoice.Invoice

	for _, inv := range all {
		if inv.Type == params.Type {
			batch = append(batch, inv)
		}
	}

	if len(batch) == 0 {
		return nil, fmt.Errorf("%w of type %s found for year %d", ErrNoInvoices, params.Type, params.Year)
	}

	lock, err := s.repo.BeginGeneration(ctx, params.CompanyID, params.Type, params.Year)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := lock.Release(); err != nil {
			slog.Error("failed to release generation lock", "company_id", params.CompanyID, "error", err)
		}
	}()

	start := time.Now()

	err = s.generator.GenerateKPIs(ctx, GenerateRequest{
		CompanyID: params.CompanyID,
		Type:      params.Type,
		Year:      params.Year,
		Invoices:  batch,
		Token:     params.Token,
	})
	if err != nil {
		slog.Error("kpi generation failed",
			"company_id", params.CompanyID,
			"invoice_type", params.Type,
			"year", params.Year,
			"duration", time.Since(start),
			"error", err,
		)

		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	slog.Info("kpi generation finished",
		"company_id", params.CompanyID,
		"invoice_type", params.Type,
		"year", params.Year,
		"invoices", len(batch),
		"duration", time.Since(start),
	)

	return s.Dashboard(ctx, params.CompanyID, params.Year, params.Type)
}

// UpdateTarget validates value against the current average of the baseline's
// year and type, recomputed here, and stores it.
func (s *Service) UpdateTarget(ctx context.Context, baselineID uuid.UUID, value float64) (*Baseline, error) {
	b, err := s.repo.GetBaseline(ctx, baselineID)
	if err != nil {
		return nil, err
	}

	invs, err := s.invoices.List(ctx, invoice.ListFilter{
		CompanyID: &b.CompanyID,
		Year:      &b.Year,
		Type:      &b.InvoiceType,
	})
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	if err := ValidateTarget(value, AverageConsumption(invs)); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTarget(ctx, baselineID, value); err != nil {
		return nil, err
	}

	b.TargetValue = &value

	return b, nil
}
