package models

import "github.com/shopspring/decimal"

// MatterType classifies a legal matter
type MatterType string

const (
	MatterLitigation    MatterType = "litigation"
	MatterCompliance    MatterType = "compliance"
	MatterInvestigation MatterType = "investigation"
	MatterTransaction   MatterType = "transaction"
	MatterOther         MatterType = "other"
)

func (t MatterType) Valid() bool {
	switch t {
	case MatterLitigation, MatterCompliance, MatterInvestigation, MatterTransaction, MatterOther:
		return true
	}
	return false
}

// MatterStatus is the state of a legal matter
type MatterStatus string

const (
	MatterActive   MatterStatus = "active"
	MatterPending  MatterStatus = "pending"
	MatterResolved MatterStatus = "resolved"
	MatterOnHold   MatterStatus = "on_hold"
)

func (s MatterStatus) Valid() bool {
	switch s {
	case MatterActive, MatterPending, MatterResolved, MatterOnHold:
		return true
	}
	return false
}

// LegalMatter is a case, investigation or other legal proceeding
type LegalMatter struct {
	ID               int64               `json:"id"`
	Title            string              `json:"title"`
	CaseNumber       string              `json:"case_number"`
	MatterType       MatterType          `json:"matter_type"`
	Status           MatterStatus        `json:"status"`
	Jurisdiction     string              `json:"jurisdiction"`
	Court            string              `json:"court"`
	FilingDate       *Date               `json:"filing_date"`
	NextHearingDate  *Date               `json:"next_hearing_date"`
	SettlementAmount decimal.NullDecimal `json:"settlement_amount"`
	JudgmentAmount   decimal.NullDecimal `json:"judgment_amount"`
	Outcome          string              `json:"outcome"`
	Description      string              `json:"description"`
	AttorneyIDs      []int64             `json:"attorney_ids"`
	StakeholderIDs   []int64             `json:"stakeholder_ids"`
	PropertyIDs      []int64             `json:"property_ids"`
	CreatedAt        Timestamp           `json:"created_at"`
	UpdatedAt        Timestamp           `json:"updated_at"`
}
