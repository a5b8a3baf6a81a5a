package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/control-center/internal/models"
)

const legalMatterColumns = `id, title, case_number, matter_type, status, jurisdiction, court, filing_date,
	next_hearing_date, settlement_amount, judgment_amount, outcome, description, created_at, updated_at`

// LegalMatterFilter narrows a legal matter listing. StakeholderID matches
// matters where the stakeholder is an attorney or a related party.
type LegalMatterFilter struct {
	Query         string
	Statuses      []models.MatterStatus
	StakeholderID int64
	PropertyID    int64
	Limit         int
	Offset        int
}

func scanLegalMatter(row scanner) (*models.LegalMatter, error) {
	m := &models.LegalMatter{}
	err := row.Scan(&m.ID, &m.Title, &m.CaseNumber, &m.MatterType, &m.Status, &m.Jurisdiction, &m.Court,
		&m.FilingDate, &m.NextHearingDate, &m.SettlementAmount, &m.JudgmentAmount, &m.Outcome, &m.Description,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// CreateLegalMatter creates a new legal matter with its attorney, party and property links
func (r *Repository) CreateLegalMatter(ctx context.Context, m *models.LegalMatter) error {
	now := r.timestamp()
	query := `
		INSERT INTO legal_matters (title, case_number, matter_type, status, jurisdiction, court, filing_date,
			next_hearing_date, settlement_amount, judgment_amount, outcome, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, query, m.Title, m.CaseNumber, m.MatterType, m.Status, m.Jurisdiction,
			m.Court, m.FilingDate, m.NextHearingDate, m.SettlementAmount, m.JudgmentAmount, m.Outcome,
			m.Description, now, now).Scan(&m.ID)
		if err != nil {
			return mapWriteError(err, "create legal matter")
		}
		return saveLegalLinks(ctx, tx, m)
	})
	if err != nil {
		m.ID = 0
		return err
	}
	m.CreatedAt, m.UpdatedAt = now, now
	return nil
}

func saveLegalLinks(ctx context.Context, tx *sql.Tx, m *models.LegalMatter) error {
	if err := replaceLinks(ctx, tx, legalAttorneys, m.ID, m.AttorneyIDs); err != nil {
		return err
	}
	if err := replaceLinks(ctx, tx, legalStakeholders, m.ID, m.StakeholderIDs); err != nil {
		return err
	}
	return replaceLinks(ctx, tx, legalProperties, m.ID, m.PropertyIDs)
}

func (r *Repository) attachLegalLinks(ctx context.Context, matters []models.LegalMatter) error {
	ids := make([]int64, len(matters))
	for i := range matters {
		ids[i] = matters[i].ID
	}
	attorneys, err := r.loadLinks(ctx, legalAttorneys, ids)
	if err != nil {
		return err
	}
	parties, err := r.loadLinks(ctx, legalStakeholders, ids)
	if err != nil {
		return err
	}
	properties, err := r.loadLinks(ctx, legalProperties, ids)
	if err != nil {
		return err
	}
	for i := range matters {
		m := &matters[i]
		m.AttorneyIDs, m.StakeholderIDs, m.PropertyIDs = attorneys[m.ID], parties[m.ID], properties[m.ID]
	}
	return nil
}

// GetLegalMatter retrieves a legal matter by id
func (r *Repository) GetLegalMatter(ctx context.Context, id int64) (*models.LegalMatter, error) {
	query := `SELECT ` + legalMatterColumns + ` FROM legal_matters WHERE id = $1`
	m, err := scanLegalMatter(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("legal matter %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find legal matter: %w", err)
	}
	one := []models.LegalMatter{*m}
	if err := r.attachLegalLinks(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// ListLegalMatters returns legal matters, newest first
func (r *Repository) ListLegalMatters(ctx context.Context, f LegalMatterFilter) ([]models.LegalMatter, error) {
	w := &where{}
	if f.Query != "" {
		w.add("(LOWER(title) LIKE ? OR LOWER(case_number) LIKE ?)", like(f.Query), like(f.Query))
	}
	w.in("status", anySlice(f.Statuses))
	if f.StakeholderID != 0 {
		w.add(linkedTo("id", legalAttorneys, legalStakeholders), f.StakeholderID, f.StakeholderID)
	}
	if f.PropertyID != 0 {
		w.add(linkedTo("id", legalProperties), f.PropertyID)
	}
	query := `SELECT ` + legalMatterColumns + ` FROM legal_matters` + w.String() +
		` ORDER BY created_at DESC, id DESC` + w.page(f.Limit, f.Offset)
	return r.queryLegalMatters(ctx, query, w.args...)
}

// ListFilings returns unresolved matters with a filing date in range; nil bounds are open
func (r *Repository) ListFilings(ctx context.Context, from, to *models.Date) ([]models.LegalMatter, error) {
	w := &where{}
	w.add("filing_date IS NOT NULL")
	w.add("status <> ?", models.MatterResolved)
	if from != nil {
		w.add("filing_date >= ?", *from)
	}
	if to != nil {
		w.add("filing_date <= ?", *to)
	}
	query := `SELECT ` + legalMatterColumns + ` FROM legal_matters` + w.String() + ` ORDER BY filing_date, id`
	return r.queryLegalMatters(ctx, query, w.args...)
}

// UpdateLegalMatter overwrites the editable fields and the link sets of a legal matter
func (r *Repository) UpdateLegalMatter(ctx context.Context, m *models.LegalMatter) error {
	now := r.timestamp()
	query := `
		UPDATE legal_matters
		SET title = $1, case_number = $2, matter_type = $3, status = $4, jurisdiction = $5, court = $6,
			filing_date = $7, next_hearing_date = $8, settlement_amount = $9, judgment_amount = $10,
			outcome = $11, description = $12, updated_at = $13
		WHERE id = $14`
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, m.Title, m.CaseNumber, m.MatterType, m.Status, m.Jurisdiction,
			m.Court, m.FilingDate, m.NextHearingDate, m.SettlementAmount, m.JudgmentAmount, m.Outcome,
			m.Description, now, m.ID)
		if err := expectRows(res, err, "update legal matter"); err != nil {
			return err
		}
		return saveLegalLinks(ctx, tx, m)
	})
	if err != nil {
		return err
	}
	m.UpdatedAt = now
	return nil
}

// DeleteLegalMatter removes a legal matter
func (r *Repository) DeleteLegalMatter(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM legal_matters WHERE id = $1`, id)
	return expectRows(res, err, "delete legal matter")
}

func (r *Repository) queryLegalMatters(ctx context.Context, query string, args ...any) ([]models.LegalMatter, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list legal matters: %w", err)
	}
	defer rows.Close()

	matters := []models.LegalMatter{}
	for rows.Next() {
		m, err := scanLegalMatter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan legal matter: %w", err)
		}
		matters = append(matters, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	if err := r.attachLegalLinks(ctx, matters); err != nil {
		return nil, err
	}
	return matters, nil
}
