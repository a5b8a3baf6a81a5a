package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/control-center/internal/models"
)

const cashFlowColumns = `id, description, amount, entry_type, category, date, is_projected,
	related_stakeholder_id, related_loan_id, related_property_id, notes_text, created_at`

var cashFlowSorts = map[string]string{
	"description": "description",
	"entry_type":  "entry_type",
	"category":    "category",
	"date":        "date",
	"amount":      "amount",
}

func scanCashFlowEntry(row scanner) (*models.CashFlowEntry, error) {
	e := &models.CashFlowEntry{}
	err := row.Scan(&e.ID, &e.Description, &e.Amount, &e.EntryType, &e.Category, &e.Date, &e.IsProjected,
		&e.RelatedStakeholderID, &e.RelatedLoanID, &e.RelatedPropertyID, &e.NotesText, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// CreateCashFlowEntry creates a new cash flow entry
func (r *Repository) CreateCashFlowEntry(ctx context.Context, e *models.CashFlowEntry) error {
	now := r.timestamp()
	query := `
		INSERT INTO cash_flow_entries (description, amount, entry_type, category, date, is_projected,
			related_stakeholder_id, related_loan_id, related_property_id, notes_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, e.Description, e.Amount, e.EntryType, e.Category, e.Date,
		e.IsProjected, e.RelatedStakeholderID, e.RelatedLoanID, e.RelatedPropertyID, e.NotesText, now).Scan(&e.ID)
	if err != nil {
		return mapWriteError(err, "create cash flow entry")
	}
	e.CreatedAt = now
	return nil
}

// GetCashFlowEntry retrieves an entry by id
func (r *Repository) GetCashFlowEntry(ctx context.Context, id int64) (*models.CashFlowEntry, error) {
	query := `SELECT ` + cashFlowColumns + ` FROM cash_flow_entries WHERE id = $1`
	e, err := scanCashFlowEntry(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cash flow entry %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cash flow entry: %w", err)
	}
	return e, nil
}

// ListCashFlowEntries returns entries matching the filter, newest first unless a sort is given
func (r *Repository) ListCashFlowEntries(ctx context.Context, f models.CashFlowFilter) ([]models.CashFlowEntry, error) {
	w := &where{}
	if f.From != nil {
		w.add("date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("date <= ?", *f.To)
	}
	if f.Projected != nil {
		w.add("is_projected = ?", *f.Projected)
	}
	w.in("entry_type", anySlice(f.EntryTypes))
	w.in("id", anySlice(f.IDs))
	if f.PropertyID != 0 {
		w.add("related_property_id = ?", f.PropertyID)
	}
	if f.Query != "" {
		w.add("LOWER(description) LIKE ?", like(f.Query))
	}
	query := `SELECT ` + cashFlowColumns + ` FROM cash_flow_entries` + w.String() +
		orderBy(f.Sort, f.Desc, cashFlowSorts, "date DESC, id DESC") + w.page(f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash flow entries: %w", err)
	}
	defer rows.Close()

	entries := []models.CashFlowEntry{}
	for rows.Next() {
		e, err := scanCashFlowEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash flow entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// UpdateCashFlowEntry overwrites the editable fields of an entry
func (r *Repository) UpdateCashFlowEntry(ctx context.Context, e *models.CashFlowEntry) error {
	query := `
		UPDATE cash_flow_entries
		SET description = $1, amount = $2, entry_type = $3, category = $4, date = $5, is_projected = $6,
			related_stakeholder_id = $7, related_loan_id = $8, related_property_id = $9, notes_text = $10
		WHERE id = $11`
	res, err := r.db.ExecContext(ctx, query, e.Description, e.Amount, e.EntryType, e.Category, e.Date,
		e.IsProjected, e.RelatedStakeholderID, e.RelatedLoanID, e.RelatedPropertyID, e.NotesText, e.ID)
	return expectRows(res, err, "update cash flow entry")
}

// DeleteCashFlowEntry removes an entry
func (r *Repository) DeleteCashFlowEntry(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cash_flow_entries WHERE id = $1`, id)
	return expectRows(res, err, "delete cash flow entry")
}

// DeleteCashFlowEntries removes the given entries and returns how many existed
func (r *Repository) DeleteCashFlowEntries(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	w := &where{}
	w.in("id", anySlice(ids))
	res, err := r.db.ExecContext(ctx, `DELETE FROM cash_flow_entries`+w.String(), w.args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cash flow entries: %w", err)
	}
	return res.RowsAffected()
}
