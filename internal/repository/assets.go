package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/control-center/internal/models"
)

const realEstateColumns = `id, name, address, jurisdiction, property_type, estimated_value, acquisition_date,
	status, stakeholder_id, notes_text, created_at, updated_at`

var realEstateSorts = map[string]string{
	"name":             "name",
	"status":           "status",
	"estimated_value":  "estimated_value",
	"acquisition_date": "acquisition_date",
}

// RealEstateFilter narrows a property listing. From and To bound the acquisition date.
type RealEstateFilter struct {
	Query         string
	Statuses      []models.PropertyStatus
	From          *models.Date
	To            *models.Date
	StakeholderID int64
	IDs           []int64
	Sort          string
	Desc          bool
	Limit         int
	Offset        int
}

func scanRealEstate(row scanner) (*models.RealEstate, error) {
	p := &models.RealEstate{}
	err := row.Scan(&p.ID, &p.Name, &p.Address, &p.Jurisdiction, &p.PropertyType, &p.EstimatedValue,
		&p.AcquisitionDate, &p.Status, &p.StakeholderID, &p.NotesText, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateRealEstate creates a new property
func (r *Repository) CreateRealEstate(ctx context.Context, p *models.RealEstate) error {
	now := r.timestamp()
	query := `
		INSERT INTO real_estate (name, address, jurisdiction, property_type, estimated_value, acquisition_date,
			status, stakeholder_id, notes_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Address, p.Jurisdiction, p.PropertyType, p.EstimatedValue,
		p.AcquisitionDate, p.Status, p.StakeholderID, p.NotesText, now, now).Scan(&p.ID)
	if err != nil {
		return mapWriteError(err, "create property")
	}
	p.CreatedAt, p.UpdatedAt = now, now
	return nil
}

// GetRealEstate retrieves a property by id
func (r *Repository) GetRealEstate(ctx context.Context, id int64) (*models.RealEstate, error) {
	query := `SELECT ` + realEstateColumns + ` FROM real_estate WHERE id = $1`
	p, err := scanRealEstate(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("property %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find property: %w", err)
	}
	return p, nil
}

// ListRealEstate returns properties ordered by name unless a sort is given.
// Query matches name or address.
func (r *Repository) ListRealEstate(ctx context.Context, f RealEstateFilter) ([]models.RealEstate, error) {
	w := &where{}
	if f.Query != "" {
		w.add("(LOWER(name) LIKE ? OR LOWER(address) LIKE ?)", like(f.Query), like(f.Query))
	}
	w.in("status", anySlice(f.Statuses))
	if f.From != nil {
		w.add("acquisition_date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("acquisition_date <= ?", *f.To)
	}
	if f.StakeholderID != 0 {
		w.add("stakeholder_id = ?", f.StakeholderID)
	}
	w.in("id", anySlice(f.IDs))
	query := `SELECT ` + realEstateColumns + ` FROM real_estate` + w.String() +
		orderBy(f.Sort, f.Desc, realEstateSorts, "name, id") + w.page(f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	properties := []models.RealEstate{}
	for rows.Next() {
		p, err := scanRealEstate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, *p)
	}
	return properties, rows.Err()
}

// UpdateRealEstate overwrites the editable fields of a property
func (r *Repository) UpdateRealEstate(ctx context.Context, p *models.RealEstate) error {
	now := r.timestamp()
	query := `
		UPDATE real_estate
		SET name = $1, address = $2, jurisdiction = $3, property_type = $4, estimated_value = $5,
			acquisition_date = $6, status = $7, stakeholder_id = $8, notes_text = $9, updated_at = $10
		WHERE id = $11`
	res, err := r.db.ExecContext(ctx, query, p.Name, p.Address, p.Jurisdiction, p.PropertyType, p.EstimatedValue,
		p.AcquisitionDate, p.Status, p.StakeholderID, p.NotesText, now, p.ID)
	if err := expectRows(res, err, "update property"); err != nil {
		return err
	}
	p.UpdatedAt = now
	return nil
}

// DeleteRealEstate removes a property. Tasks and cash flow entries keep their
// rows with the reference cleared.
func (r *Repository) DeleteRealEstate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM real_estate WHERE id = $1`, id)
	return expectRows(res, err, "delete property")
}

// DeleteRealEstates removes the given properties and returns how many existed
func (r *Repository) DeleteRealEstates(ctx context.Context, ids []int64) (int64, error) {
	return r.deleteIDs(ctx, "real_estate", "properties", ids)
}

const investmentColumns = `id, name, investment_type, institution, current_value, stakeholder_id, notes_text,
	created_at, updated_at`

var investmentSorts = map[string]string{
	"name":            "name",
	"investment_type": "investment_type",
	"current_value":   "current_value",
}

// InvestmentFilter narrows an investment listing
type InvestmentFilter struct {
	Query         string
	StakeholderID int64
	IDs           []int64
	Sort          string
	Desc          bool
	Limit         int
	Offset        int
}

func scanInvestment(row scanner) (*models.Investment, error) {
	inv := &models.Investment{}
	err := row.Scan(&inv.ID, &inv.Name, &inv.InvestmentType, &inv.Institution, &inv.CurrentValue,
		&inv.StakeholderID, &inv.NotesText, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// CreateInvestment creates a new investment
func (r *Repository) CreateInvestment(ctx context.Context, inv *models.Investment) error {
	now := r.timestamp()
	query := `
		INSERT INTO investments (name, investment_type, institution, current_value, stakeholder_id, notes_text,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, inv.Name, inv.InvestmentType, inv.Institution, inv.CurrentValue,
		inv.StakeholderID, inv.NotesText, now, now).Scan(&inv.ID)
	if err != nil {
		return mapWriteError(err, "create investment")
	}
	inv.CreatedAt, inv.UpdatedAt = now, now
	return nil
}

// GetInvestment retrieves an investment by id
func (r *Repository) GetInvestment(ctx context.Context, id int64) (*models.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1`
	inv, err := scanInvestment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("investment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find investment: %w", err)
	}
	return inv, nil
}

// ListInvestments returns investments ordered by name unless a sort is given
func (r *Repository) ListInvestments(ctx context.Context, f InvestmentFilter) ([]models.Investment, error) {
	w := &where{}
	if f.Query != "" {
		w.add("LOWER(name) LIKE ?", like(f.Query))
	}
	if f.StakeholderID != 0 {
		w.add("stakeholder_id = ?", f.StakeholderID)
	}
	w.in("id", anySlice(f.IDs))
	query := `SELECT ` + investmentColumns + ` FROM investments` + w.String() +
		orderBy(f.Sort, f.Desc, investmentSorts, "name, id") + w.page(f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	investments := []models.Investment{}
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		investments = append(investments, *inv)
	}
	return investments, rows.Err()
}

// UpdateInvestment overwrites the editable fields of an investment
func (r *Repository) UpdateInvestment(ctx context.Context, inv *models.Investment) error {
	now := r.timestamp()
	query := `
		UPDATE investments
		SET name = $1, investment_type = $2, institution = $3, current_value = $4, stakeholder_id = $5,
			notes_text = $6, updated_at = $7
		WHERE id = $8`
	res, err := r.db.ExecContext(ctx, query, inv.Name, inv.InvestmentType, inv.Institution, inv.CurrentValue,
		inv.StakeholderID, inv.NotesText, now, inv.ID)
	if err := expectRows(res, err, "update investment"); err != nil {
		return err
	}
	inv.UpdatedAt = now
	return nil
}

// DeleteInvestment removes an investment
func (r *Repository) DeleteInvestment(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM investments WHERE id = $1`, id)
	return expectRows(res, err, "delete investment")
}

// DeleteInvestments removes the given investments and returns how many existed
func (r *Repository) DeleteInvestments(ctx context.Context, ids []int64) (int64, error) {
	return r.deleteIDs(ctx, "investments", "investments", ids)
}

// deleteIDs removes rows of table by id; an empty id list deletes nothing
func (r *Repository) deleteIDs(ctx context.Context, table, what string, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	w := &where{}
	w.in("id", anySlice(ids))
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+w.String(), w.args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", what, err)
	}
	return res.RowsAffected()
}
