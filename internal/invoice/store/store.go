package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanInvoice reads an invoice row joined with its headquarters.
// Expected column order: id, type, year, headquarters_id, file_url, file_name, user_id, status, data, created_at, hq_company_id, hq_name
func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var typeStr, statusStr string

	var fileURL, fileName sql.NullString

	var hqCompanyID uuid.NullUUID

	var hqName sql.NullString

	if err := s.Scan(
		&inv.ID, &typeStr, &inv.Year, &inv.HeadquartersID, &fileURL, &fileName,
		&inv.UserID, &statusStr, &inv.Data, &inv.CreatedAt,
		&hqCompanyID, &hqName,
	); err != nil {
		return nil, err
	}

	inv.Type = invoice.Type(typeStr)
	inv.Status = invoice.Status(statusStr)
	inv.FileURL = fileURL.String
	inv.FileName = fileName.String

	if hqCompanyID.Valid {
		inv.Headquarters = &invoice.Headquarters{
			ID:        inv.HeadquartersID,
			CompanyID: hqCompanyID.UUID,
			Name:      hqName.String,
		}
	}

	return &inv, nil
}

const selectInvoiceColumns = `
	i.id, i.type, i.year, i.headquarters_id, i.file_url, i.file_name,
	i.user_id, i.status, i.data, i.created_at, h.company_id, h.name
`

const insertInvoice = `
	INSERT INTO invoices (type, year, headquarters_id, file_url, file_name, user_id, status, data, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
	RETURNING id, created_at
`

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func createInvoice(ctx context.Context, db execer, inv *invoice.Invoice) error {
	var createdAt *time.Time

	if !inv.CreatedAt.IsZero() {
		createdAt = &inv.CreatedAt
	}

	return db.QueryRowContext(ctx, insertInvoice,
		inv.Type,
		inv.Year,
		inv.HeadquartersID,
		nullString(inv.FileURL),
		nullString(inv.FileName),
		inv.UserID,
		inv.Status,
		inv.Data,
		createdAt,
	).Scan(&inv.ID, &inv.CreatedAt)
}

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	if err := createInvoice(ctx, s.db, inv); err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	return nil
}

// CreateInvoices inserts all invoices in a single database transaction.
func (s *Store) CreateInvoices(ctx context.Context, invs []*invoice.Invoice) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	for _, inv := range invs {
		if err := createInvoice(ctx, dbTx, inv); err != nil {
			return fmt.Errorf("creating invoice: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		LEFT JOIN headquarters h ON i.headquarters_id = h.id
		WHERE i.id = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		INNER JOIN headquarters h ON i.headquarters_id = h.id
		WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.CompanyID != nil {
		query += fmt.Sprintf(" AND h.company_id = $%d", argIdx)

		args = append(args, *filter.CompanyID)
		argIdx++
	}

	if filter.HeadquartersID != nil {
		query += fmt.Sprintf(" AND i.headquarters_id = $%d", argIdx)

		args = append(args, *filter.HeadquartersID)
		argIdx++
	}

	if filter.Year != nil {
		query += fmt.Sprintf(" AND i.year = $%d", argIdx)

		args = append(args, *filter.Year)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND i.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	query += " ORDER BY i.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invs []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invs = append(invs, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice rows: %w", err)
	}

	return invs, nil
}

func (s *Store) UpdateData(ctx context.Context, id uuid.UUID, data invoice.Fields, status invoice.Status) error {
	query := `
		UPDATE invoices
		SET data = $1, status = $2
		WHERE id = $3
	`

	res, err := s.db.ExecContext(ctx, query, data, status, id)
	if err != nil {
		return fmt.Errorf("updating invoice data: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return invoice.ErrNotFound
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
