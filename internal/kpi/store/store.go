package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
	"github.com/MrJamesThe3rd/ecokpi/internal/kpi"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectBaselineColumns = `
	id, company_id, invoice_type, year, baseline_value, target_value, unit, created_at, updated_at
`

func scanBaseline(s scanner) (*kpi.Baseline, error) {
	var b kpi.Baseline

	var invoiceType string

	var target sql.NullFloat64

	var unit sql.NullString

	if err := s.Scan(
		&b.ID, &b.CompanyID, &invoiceType, &b.Year, &b.BaselineValue, &target, &unit,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b.InvoiceType = invoice.Type(invoiceType)
	b.Unit = unit.String

	if target.Valid {
		b.TargetValue = &target.Float64
	}

	return &b, nil
}

func (s *Store) ListBaselines(ctx context.Context, companyID uuid.UUID, year int) ([]*kpi.Baseline, error) {
	query := `SELECT ` + selectBaselineColumns + `
		FROM kpi_baselines
		WHERE company_id = $1 AND year = $2
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, companyID, year)
	if err != nil {
		return nil, fmt.Errorf("listing baselines: %w", err)
	}
	defer rows.Close()

	var baselines []*kpi.Baseline

	for rows.Next() {
		b, err := scanBaseline(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning baseline: %w", err)
		}

		baselines = append(baselines, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating baseline rows: %w", err)
	}

	return baselines, nil
}

func (s *Store) GetBaseline(ctx context.Context, id uuid.UUID) (*kpi.Baseline, error) {
	query := `SELECT ` + selectBaselineColumns + ` FROM kpi_baselines WHERE id = $1`

	b, err := scanBaseline(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kpi.ErrBaselineNotFound
		}

		return nil, fmt.Errorf("getting baseline: %w", err)
	}

	return b, nil
}

func (s *Store) UpdateTarget(ctx context.Context, id uuid.UUID, target float64) error {
	query := `
		UPDATE kpi_baselines
		SET target_value = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, target, id)
	if err != nil {
		return fmt.Errorf("updating target: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return kpi.ErrBaselineNotFound
	}

	return nil
}

func (s *Store) ListMonthlyEvaluations(ctx context.Context, companyID uuid.UUID, t invoice.Type, limit int) ([]kpi.Evaluation, error) {
	query := `
		SELECT month, value, target, status
		FROM kpi_monthly_evaluations
		WHERE company_id = $1 AND invoice_type = $2
		ORDER BY month DESC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, companyID, t, limit)
	if err != nil {
		return nil, fmt.Errorf("listing monthly evaluations: %w", err)
	}
	defer rows.Close()

	var evals []kpi.Evaluation

	for rows.Next() {
		var e kpi.Evaluation

		var status string

		if err := rows.Scan(&e.Month, &e.Value, &e.Target, &status); err != nil {
			return nil, fmt.Errorf("scanning evaluation: %w", err)
		}

		e.Status = kpi.Status(status)
		e.Deviation = kpi.Deviation(e.Value, e.Target)

		evals = append(evals, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating evaluation rows: %w", err)
	}

	return evals, nil
}

func generationLockKey(companyID uuid.UUID, t invoice.Type, year int) int64 {
	h := fnv.New64a()
	h.Write(companyID[:])
	h.Write([]byte{0})
	h.Write([]byte(t))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(year)))

	return int64(h.Sum64())
}

type generationLock struct {
	tx *sql.Tx
}

func (l *generationLock) Release() error { return l.tx.Commit() }

// BeginGeneration takes a transaction-scoped advisory lock that is held until
// Release, so a second generation for the same company, type and year fails
// fast instead of queueing behind the first.
func (s *Store) BeginGeneration(ctx context.Context, companyID uuid.UUID, t invoice.Type, year int) (kpi.GenerationLock, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning generation tx: %w", err)
	}

	var acquired bool

	lockKey := generationLockKey(companyID, t, year)
	if err := dbTx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1)", lockKey).Scan(&acquired); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring generation lock: %w", err)
	}

	if !acquired {
		dbTx.Rollback()
		return nil, kpi.ErrGenerationInProgress
	}

	return &generationLock{tx: dbTx}, nil
}
