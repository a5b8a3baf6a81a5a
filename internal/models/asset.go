package models

import "github.com/shopspring/decimal"

// PropertyStatus is the ownership state of a property
type PropertyStatus string

const (
	PropertyOwned         PropertyStatus = "owned"
	PropertyUnderContract PropertyStatus = "under_contract"
	PropertySold          PropertyStatus = "sold"
	PropertyInDispute     PropertyStatus = "in_dispute"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyOwned, PropertyUnderContract, PropertySold, PropertyInDispute:
		return true
	}
	return false
}

// RealEstate is a property held, being bought or disputed
type RealEstate struct {
	ID              int64               `json:"id"`
	Name            string              `json:"name"`
	Address         string              `json:"address"`
	Jurisdiction    string              `json:"jurisdiction"`
	PropertyType    string              `json:"property_type"`
	EstimatedValue  decimal.NullDecimal `json:"estimated_value"`
	AcquisitionDate *Date               `json:"acquisition_date"`
	Status          PropertyStatus      `json:"status"`
	StakeholderID   *int64              `json:"stakeholder_id"`
	NotesText       string              `json:"notes_text"`
	CreatedAt       Timestamp           `json:"created_at"`
	UpdatedAt       Timestamp           `json:"updated_at"`
}

// Investment is a brokerage, fund or private holding
type Investment struct {
	ID             int64               `json:"id"`
	Name           string              `json:"name"`
	InvestmentType string              `json:"investment_type"`
	Institution    string              `json:"institution"`
	CurrentValue   decimal.NullDecimal `json:"current_value"`
	StakeholderID  *int64              `json:"stakeholder_id"`
	NotesText      string              `json:"notes_text"`
	CreatedAt      Timestamp           `json:"created_at"`
	UpdatedAt      Timestamp           `json:"updated_at"`
}
