package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/control-center/internal/models"
)

const loanColumns = `id, name, lender_id, borrower_description, original_amount, current_balance, interest_rate,
	monthly_payment, next_payment_date, maturity_date, collateral, status, notes_text, created_at, updated_at`

// LoanFilter narrows a loan listing
type LoanFilter struct {
	Query  string
	Status models.LoanStatus
	Limit  int
	Offset int
}

func scanLoan(row scanner) (*models.Loan, error) {
	l := &models.Loan{}
	err := row.Scan(&l.ID, &l.Name, &l.LenderID, &l.BorrowerDescription, &l.OriginalAmount, &l.CurrentBalance,
		&l.InterestRate, &l.MonthlyPayment, &l.NextPaymentDate, &l.MaturityDate, &l.Collateral, &l.Status,
		&l.NotesText, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// CreateLoan creates a new loan
func (r *Repository) CreateLoan(ctx context.Context, l *models.Loan) error {
	now := r.timestamp()
	query := `
		INSERT INTO loans (name, lender_id, borrower_description, original_amount, current_balance, interest_rate,
			monthly_payment, next_payment_date, maturity_date, collateral, status, notes_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, l.Name, l.LenderID, l.BorrowerDescription, l.OriginalAmount,
		l.CurrentBalance, l.InterestRate, l.MonthlyPayment, l.NextPaymentDate, l.MaturityDate, l.Collateral,
		l.Status, l.NotesText, now, now).Scan(&l.ID)
	if err != nil {
		return mapWriteError(err, "create loan")
	}
	l.CreatedAt, l.UpdatedAt = now, now
	return nil
}

// GetLoan retrieves a loan by id
func (r *Repository) GetLoan(ctx context.Context, id int64) (*models.Loan, error) {
	l, err := scanLoan(r.db.QueryRowContext(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loan %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find loan: %w", err)
	}
	return l, nil
}

// ListLoans returns loans ordered by name
func (r *Repository) ListLoans(ctx context.Context, f LoanFilter) ([]models.Loan, error) {
	w := &where{}
	if f.Query != "" {
		w.add("LOWER(name) LIKE ?", like(f.Query))
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	query := `SELECT ` + loanColumns + ` FROM loans` + w.String() + ` ORDER BY name, id` + w.page(f.Limit, f.Offset)
	return r.queryLoans(ctx, query, w.args...)
}

// ListLoansByLender returns the loans a stakeholder is the lender of
func (r *Repository) ListLoansByLender(ctx context.Context, lenderID int64) ([]models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE lender_id = $1 ORDER BY name, id`
	return r.queryLoans(ctx, query, lenderID)
}

// ListActiveLoans returns active loans, limited to those with a next payment
// on or before dueBefore when it is set
func (r *Repository) ListActiveLoans(ctx context.Context, dueBefore *models.Date) ([]models.Loan, error) {
	w := &where{}
	w.add("status = ?", models.LoanActive)
	if dueBefore != nil {
		w.add("next_payment_date <= ?", *dueBefore)
	}
	query := `SELECT ` + loanColumns + ` FROM loans` + w.String() + ` ORDER BY next_payment_date, id`
	return r.queryLoans(ctx, query, w.args...)
}

// ListLoanPayments returns active loans with a next payment date in range
func (r *Repository) ListLoanPayments(ctx context.Context, from, to *models.Date) ([]models.Loan, error) {
	w := &where{}
	w.add("status = ?", models.LoanActive)
	w.add("next_payment_date IS NOT NULL")
	if from != nil {
		w.add("next_payment_date >= ?", *from)
	}
	if to != nil {
		w.add("next_payment_date <= ?", *to)
	}
	query := `SELECT ` + loanColumns + ` FROM loans` + w.String() + ` ORDER BY next_payment_date, id`
	return r.queryLoans(ctx, query, w.args...)
}

// UpdateLoan overwrites the editable fields of a loan
func (r *Repository) UpdateLoan(ctx context.Context, l *models.Loan) error {
	now := r.timestamp()
	query := `
		UPDATE loans
		SET name = $1, lender_id = $2, borrower_description = $3, original_amount = $4, current_balance = $5,
			interest_rate = $6, monthly_payment = $7, next_payment_date = $8, maturity_date = $9,
			collateral = $10, status = $11, notes_text = $12, updated_at = $13
		WHERE id = $14`
	res, err := r.db.ExecContext(ctx, query, l.Name, l.LenderID, l.BorrowerDescription, l.OriginalAmount,
		l.CurrentBalance, l.InterestRate, l.MonthlyPayment, l.NextPaymentDate, l.MaturityDate, l.Collateral,
		l.Status, l.NotesText, now, l.ID)
	if err := expectRows(res, err, "update loan"); err != nil {
		return err
	}
	l.UpdatedAt = now
	return nil
}

// DeleteLoan removes a loan
func (r *Repository) DeleteLoan(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	return expectRows(res, err, "delete loan")
}

func (r *Repository) queryLoans(ctx context.Context, query string, args ...any) ([]models.Loan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	loans := []models.Loan{}
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, *l)
	}
	return loans, rows.Err()
}
