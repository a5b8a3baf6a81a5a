// Package alerts computes liquidity alerts from cash flow entries and loans.
package alerts

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/control-center/internal/models"
	"github.com/Dan9191/control-center/internal/utils"
)

// Level is the severity of an alert
type Level string

const (
	LevelCritical Level = "critical"
	LevelWarning  Level = "warning"
)

// Alert is a single liquidity warning shown on the dashboard
type Alert struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// LedgerStore is the read side of the ledger needed to evaluate alerts
type LedgerStore interface {
	ListCashFlowEntries(ctx context.Context, f models.CashFlowFilter) ([]models.CashFlowEntry, error)
	ListActiveLoans(ctx context.Context, dueBefore *models.Date) ([]models.Loan, error)
}

// LookaheadDays is the inclusive window for upcoming payments and projections
const LookaheadDays = 30

// LargePaymentThreshold must be strictly exceeded to raise a payments warning
var LargePaymentThreshold = decimal.NewFromInt(5000)

// Evaluate runs every check for the given day. The result is never nil.
func Evaluate(ctx context.Context, store LedgerStore, today models.Date) ([]Alert, error) {
	alerts := []Alert{}
	checks := []func(context.Context, LedgerStore, models.Date) (*Alert, error){
		negativeNetFlow,
		largeUpcomingPayments,
		projectedShortfall,
	}
	for _, check := range checks {
		alert, err := check(ctx, store, today)
		if err != nil {
			return nil, err
		}
		if alert != nil {
			alerts = append(alerts, *alert)
		}
	}
	return alerts, nil
}

func negativeNetFlow(ctx context.Context, store LedgerStore, today models.Date) (*Alert, error) {
	from, to := today.FirstOfMonth(), today.LastOfMonth()
	actual := false
	entries, err := store.ListCashFlowEntries(ctx, models.CashFlowFilter{From: &from, To: &to, Projected: &actual})
	if err != nil {
		return nil, err
	}

	var totals models.FlowTotals
	for _, e := range entries {
		if e.IsProjected || !e.Date.SameMonth(today) {
			continue
		}
		totals = totals.Add(e)
	}
	net := totals.Net()
	if !net.IsNegative() {
		return nil, nil
	}
	return &Alert{
		Level: LevelCritical,
		Title: "Negative Net Cash Flow",
		Message: fmt.Sprintf("This month's actual net flow is %s. Outflows (%s) exceed inflows (%s).",
			utils.FormatCurrency(net), utils.FormatCurrency(totals.Outflows), utils.FormatCurrency(totals.Inflows)),
	}, nil
}

func largeUpcomingPayments(ctx context.Context, store LedgerStore, today models.Date) (*Alert, error) {
	cutoff := today.AddDays(LookaheadDays)
	loans, err := store.ListActiveLoans(ctx, &cutoff)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	count := 0
	for _, l := range loans {
		if l.Status != models.LoanActive || !l.MonthlyPayment.Valid || l.NextPaymentDate == nil {
			continue
		}
		if !l.NextPaymentDate.Between(today, cutoff) {
			continue
		}
		total = total.Add(l.MonthlyPayment.Decimal)
		count++
	}
	if !total.GreaterThan(LargePaymentThreshold) {
		return nil, nil
	}
	return &Alert{
		Level: LevelWarning,
		Title: "Large Upcoming Payments",
		Message: fmt.Sprintf("%s in loan payments due within %d days across %d %s.",
			utils.FormatCurrency(total), LookaheadDays, count, utils.Plural(count, "loan")),
	}, nil
}

func projectedShortfall(ctx context.Context, store LedgerStore, today models.Date) (*Alert, error) {
	cutoff := today.AddDays(LookaheadDays)
	projected := true
	entries, err := store.ListCashFlowEntries(ctx, models.CashFlowFilter{From: &today, To: &cutoff, Projected: &projected})
	if err != nil {
		return nil, err
	}

	var totals models.FlowTotals
	for _, e := range entries {
		if !e.IsProjected || !e.Date.Between(today, cutoff) {
			continue
		}
		totals = totals.Add(e)
	}
	net := totals.Net()
	if !net.IsNegative() {
		return nil, nil
	}
	return &Alert{
		Level: LevelWarning,
		Title: "Projected Shortfall",
		Message: fmt.Sprintf("Projected outflows exceed inflows by %s over the next %d days.",
			utils.FormatCurrency(net.Abs()), LookaheadDays),
	}, nil
}
