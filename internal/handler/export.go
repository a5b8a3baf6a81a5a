package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/control-center/internal/models"
	"github.com/Dan9191/control-center/internal/utils"
)

// writeCSV streams items as a CSV attachment. Headers are already sent when
// a row fails, so the error is only logged.
func writeCSV[T any](w http.ResponseWriter, log *logrus.Logger, name string, columns []utils.Column[T], items []T) {
	if err := utils.ServeCSV(w, name, columns, items); err != nil {
		log.WithError(err).Errorf("Failed to export %s", name)
	}
}

func optDate(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func optDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func optInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

var stakeholderColumns = []utils.Column[models.Stakeholder]{
	{Header: "Name", Value: func(s models.Stakeholder) string { return s.Name }},
	{Header: "Type", Value: func(s models.Stakeholder) string { return string(s.EntityType) }},
	{Header: "Email", Value: func(s models.Stakeholder) string { return s.Email }},
	{Header: "Phone", Value: func(s models.Stakeholder) string { return s.Phone }},
	{Header: "Organization", Value: func(s models.Stakeholder) string { return s.Organization }},
	{Header: "Trust Rating", Value: func(s models.Stakeholder) string { return optInt(s.TrustRating) }},
	{Header: "Risk Rating", Value: func(s models.Stakeholder) string { return optInt(s.RiskRating) }},
}

var cashFlowColumns = []utils.Column[models.CashFlowEntry]{
	{Header: "Date", Value: func(e models.CashFlowEntry) string { return e.Date.String() }},
	{Header: "Description", Value: func(e models.CashFlowEntry) string { return e.Description }},
	{Header: "Type", Value: func(e models.CashFlowEntry) string { return string(e.EntryType) }},
	{Header: "Category", Value: func(e models.CashFlowEntry) string { return e.Category }},
	{Header: "Amount", Value: func(e models.CashFlowEntry) string { return e.Amount.StringFixed(2) }},
	{Header: "Projected", Value: func(e models.CashFlowEntry) string { return strconv.FormatBool(e.IsProjected) }},
}

var taskColumns = []utils.Column[models.Task]{
	{Header: "Title", Value: func(t models.Task) string { return t.Title }},
	{Header: "Status", Value: func(t models.Task) string { return string(t.Status) }},
	{Header: "Priority", Value: func(t models.Task) string { return string(t.Priority) }},
	{Header: "Due Date", Value: func(t models.Task) string { return optDate(t.DueDate) }},
	{Header: "Stakeholder", Value: func(t models.Task) string {
		if t.Stakeholder == nil {
			return ""
		}
		return t.Stakeholder.Name
	}},
	{Header: "Description", Value: func(t models.Task) string { return t.Description }},
}

var loanColumns = []utils.Column[models.Loan]{
	{Header: "Name", Value: func(l models.Loan) string { return l.Name }},
	{Header: "Balance", Value: func(l models.Loan) string { return optDecimal(l.CurrentBalance) }},
	{Header: "Rate", Value: func(l models.Loan) string { return optDecimal(l.InterestRate) }},
	{Header: "Monthly Payment", Value: func(l models.Loan) string { return optDecimal(l.MonthlyPayment) }},
	{Header: "Next Payment", Value: func(l models.Loan) string { return optDate(l.NextPaymentDate) }},
	{Header: "Status", Value: func(l models.Loan) string { return string(l.Status) }},
}

var legalColumns = []utils.Column[models.LegalMatter]{
	{Header: "Title", Value: func(m models.LegalMatter) string { return m.Title }},
	{Header: "Case Number", Value: func(m models.LegalMatter) string { return m.CaseNumber }},
	{Header: "Type", Value: func(m models.LegalMatter) string { return string(m.MatterType) }},
	{Header: "Status", Value: func(m models.LegalMatter) string { return string(m.Status) }},
	{Header: "Jurisdiction", Value: func(m models.LegalMatter) string { return m.Jurisdiction }},
	{Header: "Court", Value: func(m models.LegalMatter) string { return m.Court }},
	{Header: "Filing Date", Value: func(m models.LegalMatter) string { return optDate(m.FilingDate) }},
	{Header: "Next Hearing", Value: func(m models.LegalMatter) string { return optDate(m.NextHearingDate) }},
	{Header: "Settlement Amount", Value: func(m models.LegalMatter) string { return optDecimal(m.SettlementAmount) }},
	{Header: "Judgment Amount", Value: func(m models.LegalMatter) string { return optDecimal(m.JudgmentAmount) }},
}

var noteColumns = []utils.Column[models.Note]{
	{Header: "Title", Value: func(n models.Note) string { return n.Title }},
	{Header: "Type", Value: func(n models.Note) string { return string(n.NoteType) }},
	{Header: "Date", Value: func(n models.Note) string { return n.Date.String() }},
	{Header: "Content", Value: func(n models.Note) string { return n.Content }},
}

var realEstateColumns = []utils.Column[models.RealEstate]{
	{Header: "Name", Value: func(p models.RealEstate) string { return p.Name }},
	{Header: "Address", Value: func(p models.RealEstate) string { return p.Address }},
	{Header: "Type", Value: func(p models.RealEstate) string { return p.PropertyType }},
	{Header: "Estimated Value", Value: func(p models.RealEstate) string { return optDecimal(p.EstimatedValue) }},
	{Header: "Status", Value: func(p models.RealEstate) string { return string(p.Status) }},
	{Header: "Acquisition Date", Value: func(p models.RealEstate) string { return optDate(p.AcquisitionDate) }},
}

var investmentColumns = []utils.Column[models.Investment]{
	{Header: "Name", Value: func(i models.Investment) string { return i.Name }},
	{Header: "Type", Value: func(i models.Investment) string { return i.InvestmentType }},
	{Header: "Institution", Value: func(i models.Investment) string { return i.Institution }},
	{Header: "Current Value", Value: func(i models.Investment) string { return optDecimal(i.CurrentValue) }},
}
