package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/control-center/internal/models"
)

const relationshipSelect = `
	SELECT r.id, r.from_stakeholder_id, r.to_stakeholder_id, r.relationship_type, r.description,
		f.name, f.entity_type, t.name, t.entity_type
	FROM relationships r
	JOIN stakeholders f ON f.id = r.from_stakeholder_id
	JOIN stakeholders t ON t.id = r.to_stakeholder_id`

func scanRelationship(row scanner) (*models.Relationship, error) {
	rel := &models.Relationship{}
	err := row.Scan(&rel.ID, &rel.FromStakeholderID, &rel.ToStakeholderID, &rel.RelationshipType, &rel.Description,
		&rel.From.Name, &rel.From.EntityType, &rel.To.Name, &rel.To.EntityType)
	if err != nil {
		return nil, err
	}
	rel.From.ID = rel.FromStakeholderID
	rel.To.ID = rel.ToStakeholderID
	return rel, nil
}

// CreateRelationship adds a directed edge. A duplicate (from, to, type) triple returns ErrConflict.
func (r *Repository) CreateRelationship(ctx context.Context, rel *models.Relationship) error {
	query := `
		INSERT INTO relationships (from_stakeholder_id, to_stakeholder_id, relationship_type, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, rel.FromStakeholderID, rel.ToStakeholderID,
		rel.RelationshipType, rel.Description).Scan(&rel.ID)
	return mapWriteError(err, "create relationship")
}

// GetRelationship retrieves a relationship with both endpoints
func (r *Repository) GetRelationship(ctx context.Context, id int64) (*models.Relationship, error) {
	rel, err := scanRelationship(r.db.QueryRowContext(ctx, relationshipSelect+` WHERE r.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("relationship %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find relationship: %w", err)
	}
	return rel, nil
}

// DeleteRelationship removes a relationship
func (r *Repository) DeleteRelationship(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM relationships WHERE id = $1`, id)
	return expectRows(res, err, "delete relationship")
}

// ListEdgesTouching returns every relationship with at least one endpoint in ids
func (r *Repository) ListEdgesTouching(ctx context.Context, ids []int64) ([]models.Relationship, error) {
	if len(ids) == 0 {
		return []models.Relationship{}, nil
	}
	w := &where{}
	args := anySlice(ids)
	w.add("(r.from_stakeholder_id IN ("+marks(len(ids))+") OR r.to_stakeholder_id IN ("+marks(len(ids))+"))",
		append(args, args...)...)
	return r.queryRelationships(ctx, relationshipSelect+w.String()+` ORDER BY r.id`, w.args...)
}

// ListEdgesWithin returns every relationship whose endpoints are both in ids
func (r *Repository) ListEdgesWithin(ctx context.Context, ids []int64) ([]models.Relationship, error) {
	if len(ids) == 0 {
		return []models.Relationship{}, nil
	}
	w := &where{}
	w.in("r.from_stakeholder_id", anySlice(ids))
	w.in("r.to_stakeholder_id", anySlice(ids))
	return r.queryRelationships(ctx, relationshipSelect+w.String()+` ORDER BY r.id`, w.args...)
}

func (r *Repository) queryRelationships(ctx context.Context, query string, args ...any) ([]models.Relationship, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	defer rows.Close()

	rels := []models.Relationship{}
	for rows.Next() {
		rel, err := scanRelationship(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan relationship: %w", err)
		}
		rels = append(rels, *rel)
	}
	return rels, rows.Err()
}
