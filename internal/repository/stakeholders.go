package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/control-center/internal/models"
)

const stakeholderColumns = `id, name, entity_type, email, phone, organization, trust_rating, risk_rating,
	notes_text, created_at, updated_at`

// StakeholderFilter narrows a stakeholder listing
type StakeholderFilter struct {
	Query      string
	EntityType models.EntityType
	Limit      int
	Offset     int
}

func scanStakeholder(row scanner) (*models.Stakeholder, error) {
	s := &models.Stakeholder{}
	err := row.Scan(&s.ID, &s.Name, &s.EntityType, &s.Email, &s.Phone, &s.Organization,
		&s.TrustRating, &s.RiskRating, &s.NotesText, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreateStakeholder creates a new stakeholder
func (r *Repository) CreateStakeholder(ctx context.Context, s *models.Stakeholder) error {
	now := r.timestamp()
	query := `
		INSERT INTO stakeholders (name, entity_type, email, phone, organization, trust_rating, risk_rating,
			notes_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, s.Name, s.EntityType, s.Email, s.Phone, s.Organization,
		s.TrustRating, s.RiskRating, s.NotesText, now, now).Scan(&s.ID)
	if err != nil {
		return mapWriteError(err, "create stakeholder")
	}
	s.CreatedAt, s.UpdatedAt = now, now
	return nil
}

// GetStakeholder retrieves a stakeholder by id
func (r *Repository) GetStakeholder(ctx context.Context, id int64) (*models.Stakeholder, error) {
	query := `SELECT ` + stakeholderColumns + ` FROM stakeholders WHERE id = $1`
	s, err := scanStakeholder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("stakeholder %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find stakeholder: %w", err)
	}
	return s, nil
}

// ListStakeholders returns stakeholders ordered by name
func (r *Repository) ListStakeholders(ctx context.Context, f StakeholderFilter) ([]models.Stakeholder, error) {
	w := &where{}
	if f.Query != "" {
		w.add("LOWER(name) LIKE ?", like(f.Query))
	}
	if f.EntityType != "" {
		w.add("entity_type = ?", f.EntityType)
	}
	query := `SELECT ` + stakeholderColumns + ` FROM stakeholders` + w.String() + ` ORDER BY name, id`
	query += w.page(f.Limit, f.Offset)
	return r.queryStakeholders(ctx, query, w.args...)
}

// SearchStakeholders matches name or organization
func (r *Repository) SearchStakeholders(ctx context.Context, q string, limit int) ([]models.Stakeholder, error) {
	query := `SELECT ` + stakeholderColumns + ` FROM stakeholders
		WHERE LOWER(name) LIKE $1 OR LOWER(organization) LIKE $2
		ORDER BY name, id LIMIT $3`
	return r.queryStakeholders(ctx, query, like(q), like(q), limit)
}

func (r *Repository) queryStakeholders(ctx context.Context, query string, args ...any) ([]models.Stakeholder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stakeholders: %w", err)
	}
	defer rows.Close()

	stakeholders := []models.Stakeholder{}
	for rows.Next() {
		s, err := scanStakeholder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stakeholder: %w", err)
		}
		stakeholders = append(stakeholders, *s)
	}
	return stakeholders, rows.Err()
}

// UpdateStakeholder overwrites the editable fields of a stakeholder
func (r *Repository) UpdateStakeholder(ctx context.Context, s *models.Stakeholder) error {
	now := r.timestamp()
	query := `
		UPDATE stakeholders
		SET name = $1, entity_type = $2, email = $3, phone = $4, organization = $5,
			trust_rating = $6, risk_rating = $7, notes_text = $8, updated_at = $9
		WHERE id = $10`
	res, err := r.db.ExecContext(ctx, query, s.Name, s.EntityType, s.Email, s.Phone, s.Organization,
		s.TrustRating, s.RiskRating, s.NotesText, now, s.ID)
	if err := expectRows(res, err, "update stakeholder"); err != nil {
		return err
	}
	s.UpdatedAt = now
	return nil
}

// DeleteStakeholder removes a stakeholder with its relationships, contact logs and follow-ups
func (r *Repository) DeleteStakeholder(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stakeholders WHERE id = $1`, id)
	return expectRows(res, err, "delete stakeholder")
}
