package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FlowTotals represents inflow and outflow sums over a set of entries
type FlowTotals struct {
	Inflows  decimal.Decimal `json:"inflows"`
	Outflows decimal.Decimal `json:"outflows"`
}

// Net returns inflows minus outflows
func (t FlowTotals) Net() decimal.Decimal {
	return t.Inflows.Sub(t.Outflows)
}

// Add accumulates one entry into the totals
func (t FlowTotals) Add(e CashFlowEntry) FlowTotals {
	switch e.EntryType {
	case Inflow:
		t.Inflows = t.Inflows.Add(e.Amount)
	case Outflow:
		t.Outflows = t.Outflows.Add(e.Amount)
	}
	return t
}

// MonthlyCashFlow is the current month split by actual and projected entries
type MonthlyCashFlow struct {
	ActualInflows     decimal.Decimal `json:"actual_inflows"`
	ActualOutflows    decimal.Decimal `json:"actual_outflows"`
	ProjectedInflows  decimal.Decimal `json:"projected_inflows"`
	ProjectedOutflows decimal.Decimal `json:"projected_outflows"`
}

// CashFlowChart is the data behind the monthly trend and category charts
type CashFlowChart struct {
	Monthly    MonthlySeries  `json:"monthly"`
	Categories CategorySeries `json:"categories"`
}

// MonthlySeries holds parallel arrays of month labels and totals
type MonthlySeries struct {
	Labels   []string  `json:"labels"`
	Inflows  []float64 `json:"inflows"`
	Outflows []float64 `json:"outflows"`
}

// CategorySeries holds parallel arrays of category labels and totals
type CategorySeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// CashFlowListing is a filtered page of entries plus running totals
type CashFlowListing struct {
	Entries       []CashFlowEntry `json:"entries"`
	TotalInflows  decimal.Decimal `json:"total_inflows"`
	TotalOutflows decimal.Decimal `json:"total_outflows"`
	NetFlow       decimal.Decimal `json:"net_flow"`
}

// ActivityItem is one entry of the unified activity timeline
type ActivityItem struct {
	Date    time.Time `json:"date"`
	Type    string    `json:"type"`
	Color   string    `json:"color"`
	Icon    string    `json:"icon"`
	Title   string    `json:"title"`
	Summary string    `json:"summary"`
	URL     string    `json:"url"`
}

// CalendarEvent is a FullCalendar event
type CalendarEvent struct {
	Title         string            `json:"title"`
	Start         string            `json:"start"`
	URL           string            `json:"url"`
	Color         string            `json:"color"`
	ExtendedProps map[string]string `json:"extendedProps"`
}

// SearchResults groups global search hits by record kind
type SearchResults struct {
	Query           string          `json:"query"`
	Stakeholders    []Stakeholder   `json:"stakeholders"`
	Tasks           []Task          `json:"tasks"`
	Notes           []Note          `json:"notes"`
	LegalMatters    []LegalMatter   `json:"legal_matters"`
	Loans           []Loan          `json:"loans"`
	CashFlowEntries []CashFlowEntry `json:"cashflow_entries"`
	Properties      []RealEstate    `json:"properties"`
	Investments     []Investment    `json:"investments"`
	HasResults      bool            `json:"has_results"`
}
