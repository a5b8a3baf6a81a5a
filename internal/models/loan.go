package models

import "github.com/shopspring/decimal"

// LoanStatus is the lifecycle state of a loan
type LoanStatus string

const (
	LoanActive    LoanStatus = "active"
	LoanPaidOff   LoanStatus = "paid_off"
	LoanDefaulted LoanStatus = "defaulted"
	LoanInDispute LoanStatus = "in_dispute"
)

func (s LoanStatus) Valid() bool {
	switch s {
	case LoanActive, LoanPaidOff, LoanDefaulted, LoanInDispute:
		return true
	}
	return false
}

// Loan represents a loan owed to or by the office
type Loan struct {
	ID                  int64               `json:"id"`
	Name                string              `json:"name"`
	LenderID            *int64              `json:"lender_id"`
	BorrowerDescription string              `json:"borrower_description"`
	OriginalAmount      decimal.NullDecimal `json:"original_amount"`
	CurrentBalance      decimal.NullDecimal `json:"current_balance"`
	InterestRate        decimal.NullDecimal `json:"interest_rate"`
	MonthlyPayment      decimal.NullDecimal `json:"monthly_payment"`
	NextPaymentDate     *Date               `json:"next_payment_date"`
	MaturityDate        *Date               `json:"maturity_date"`
	Collateral          string              `json:"collateral"`
	Status              LoanStatus          `json:"status"`
	NotesText           string              `json:"notes_text"`
	CreatedAt           Timestamp           `json:"created_at"`
	UpdatedAt           Timestamp           `json:"updated_at"`
}
