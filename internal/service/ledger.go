package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/control-center/internal/alerts"
	"github.com/Dan9191/control-center/internal/models"
	"github.com/Dan9191/control-center/internal/repository"
)

func nonNegative(field string, d decimal.NullDecimal) error {
	if d.Valid && d.Decimal.IsNegative() {
		return invalid(field, "must not be negative")
	}
	return nil
}

func validateLoan(l *models.Loan) error {
	l.Name = strings.TrimSpace(l.Name)
	if l.Name == "" {
		return invalid("name", "is required")
	}
	if l.Status == "" {
		l.Status = models.LoanActive
	}
	if !l.Status.Valid() {
		return invalid("status", "unknown status %q", l.Status)
	}
	amounts := []struct {
		field string
		value decimal.NullDecimal
	}{
		{"original_amount", l.OriginalAmount},
		{"current_balance", l.CurrentBalance},
		{"interest_rate", l.InterestRate},
		{"monthly_payment", l.MonthlyPayment},
	}
	for _, a := range amounts {
		if err := nonNegative(a.field, a.value); err != nil {
			return err
		}
	}
	return nil
}

// CreateLoan validates and stores a loan
func (s *Service) CreateLoan(ctx context.Context, l *models.Loan) error {
	if err := validateLoan(l); err != nil {
		return err
	}
	if err := s.repo.CreateLoan(ctx, l); err != nil {
		return err
	}
	s.log.Infof("Loan created: %d %s", l.ID, l.Name)
	return nil
}

// UpdateLoan validates and saves a loan
func (s *Service) UpdateLoan(ctx context.Context, l *models.Loan) error {
	if err := validateLoan(l); err != nil {
		return err
	}
	return s.repo.UpdateLoan(ctx, l)
}

func (s *Service) GetLoan(ctx context.Context, id int64) (*models.Loan, error) {
	return s.repo.GetLoan(ctx, id)
}

func (s *Service) ListLoans(ctx context.Context, f repository.LoanFilter) ([]models.Loan, error) {
	return s.repo.ListLoans(ctx, f)
}

func (s *Service) DeleteLoan(ctx context.Context, id int64) error {
	return s.repo.DeleteLoan(ctx, id)
}

func validateCashFlowEntry(e *models.CashFlowEntry) error {
	e.Description = strings.TrimSpace(e.Description)
	e.Category = strings.TrimSpace(e.Category)
	if e.Description == "" {
		return invalid("description", "is required")
	}
	if e.Amount.IsNegative() {
		return invalid("amount", "must not be negative")
	}
	if !e.EntryType.Valid() {
		return invalid("entry_type", "must be inflow or outflow")
	}
	if e.Date.IsZero() {
		return invalid("date", "is required")
	}
	return nil
}

// CreateCashFlowEntry validates and stores an entry
func (s *Service) CreateCashFlowEntry(ctx context.Context, e *models.CashFlowEntry) error {
	if err := validateCashFlowEntry(e); err != nil {
		return err
	}
	return s.repo.CreateCashFlowEntry(ctx, e)
}

// UpdateCashFlowEntry validates and saves an entry
func (s *Service) UpdateCashFlowEntry(ctx context.Context, e *models.CashFlowEntry) error {
	if err := validateCashFlowEntry(e); err != nil {
		return err
	}
	return s.repo.UpdateCashFlowEntry(ctx, e)
}

func (s *Service) GetCashFlowEntry(ctx context.Context, id int64) (*models.CashFlowEntry, error) {
	return s.repo.GetCashFlowEntry(ctx, id)
}

func (s *Service) DeleteCashFlowEntry(ctx context.Context, id int64) error {
	return s.repo.DeleteCashFlowEntry(ctx, id)
}

// ListCashFlow returns the filtered entries with inflow, outflow and net
// totals over the whole filtered set. Paging does not affect the totals.
func (s *Service) ListCashFlow(ctx context.Context, f models.CashFlowFilter) (*models.CashFlowListing, error) {
	all := f
	all.Limit, all.Offset = 0, 0
	entries, err := s.repo.ListCashFlowEntries(ctx, all)
	if err != nil {
		return nil, err
	}

	var totals models.FlowTotals
	for _, e := range entries {
		totals = totals.Add(e)
	}

	page := entries
	if f.Limit > 0 {
		start := min(f.Offset, len(entries))
		page = entries[start:min(start+f.Limit, len(entries))]
	}
	return &models.CashFlowListing{
		Entries:       page,
		TotalInflows:  totals.Inflows,
		TotalOutflows: totals.Outflows,
		NetFlow:       totals.Net(),
	}, nil
}

// ExportCashFlow returns the entries for a CSV export. With ids set only
// those entries are returned, otherwise the filter applies.
func (s *Service) ExportCashFlow(ctx context.Context, f models.CashFlowFilter) ([]models.CashFlowEntry, error) {
	f.Limit, f.Offset = 0, 0
	return s.repo.ListCashFlowEntries(ctx, f)
}

// BulkDeleteCashFlow removes the selected entries
func (s *Service) BulkDeleteCashFlow(ctx context.Context, ids []int64) (int64, error) {
	n, err := s.repo.DeleteCashFlowEntries(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.log.Infof("%d cash flow entries deleted", n)
	return n, nil
}

// LiquidityAlerts evaluates the liquidity checks for today
func (s *Service) LiquidityAlerts(ctx context.Context) ([]alerts.Alert, error) {
	return alerts.Evaluate(ctx, s.repo, s.Today())
}
