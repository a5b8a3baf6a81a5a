package models

import "github.com/shopspring/decimal"

// EntryType is the flow direction of a cash flow entry
type EntryType string

const (
	Inflow  EntryType = "inflow"
	Outflow EntryType = "outflow"
)

func (t EntryType) Valid() bool {
	return t == Inflow || t == Outflow
}

// CashFlowEntry is a single actual or projected money movement.
// Amount is always a non-negative magnitude; the sign comes from EntryType.
type CashFlowEntry struct {
	ID                   int64           `json:"id"`
	Description          string          `json:"description"`
	Amount               decimal.Decimal `json:"amount"`
	EntryType            EntryType       `json:"entry_type"`
	Category             string          `json:"category"`
	Date                 Date            `json:"date"`
	IsProjected          bool            `json:"is_projected"`
	RelatedStakeholderID *int64          `json:"related_stakeholder_id"`
	RelatedLoanID        *int64          `json:"related_loan_id"`
	RelatedPropertyID    *int64          `json:"related_property_id"`
	NotesText            string          `json:"notes_text"`
	CreatedAt            Timestamp       `json:"created_at"`
}

// Signed returns the amount with the sign implied by the flow direction
func (e CashFlowEntry) Signed() decimal.Decimal {
	if e.EntryType == Outflow {
		return e.Amount.Neg()
	}
	return e.Amount
}

// CashFlowFilter narrows a cash flow listing. Nil fields do not filter.
type CashFlowFilter struct {
	From       *Date
	To         *Date
	Projected  *bool
	EntryTypes []EntryType
	Query      string
	Sort       string
	Desc       bool
	IDs        []int64
	PropertyID int64
	Limit      int
	Offset     int
}
