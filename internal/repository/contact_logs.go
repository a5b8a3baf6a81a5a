package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/control-center/internal/models"
)

const contactLogSelect = `
	SELECT c.id, c.stakeholder_id, c.date, c.method, c.summary, c.follow_up_needed, c.follow_up_date,
		s.name, s.entity_type
	FROM contact_logs c
	JOIN stakeholders s ON s.id = c.stakeholder_id`

func scanContactLog(row scanner) (*models.ContactLog, error) {
	c := &models.ContactLog{}
	err := row.Scan(&c.ID, &c.StakeholderID, &c.Date, &c.Method, &c.Summary, &c.FollowUpNeeded, &c.FollowUpDate,
		&c.Stakeholder.Name, &c.Stakeholder.EntityType)
	if err != nil {
		return nil, err
	}
	c.Stakeholder.ID = c.StakeholderID
	return c, nil
}

// CreateContactLog records an interaction with a stakeholder
func (r *Repository) CreateContactLog(ctx context.Context, c *models.ContactLog) error {
	query := `
		INSERT INTO contact_logs (stakeholder_id, date, method, summary, follow_up_needed, follow_up_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, c.StakeholderID, c.Date, c.Method, c.Summary,
		c.FollowUpNeeded, c.FollowUpDate).Scan(&c.ID)
	return mapWriteError(err, "create contact log")
}

// GetContactLog retrieves a contact log by id
func (r *Repository) GetContactLog(ctx context.Context, id int64) (*models.ContactLog, error) {
	c, err := scanContactLog(r.db.QueryRowContext(ctx, contactLogSelect+` WHERE c.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("contact log %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact log: %w", err)
	}
	return c, nil
}

// ListContactLogs returns the newest contact logs, optionally for one stakeholder
func (r *Repository) ListContactLogs(ctx context.Context, stakeholderID int64, limit int) ([]models.ContactLog, error) {
	w := &where{}
	if stakeholderID != 0 {
		w.add("c.stakeholder_id = ?", stakeholderID)
	}
	query := contactLogSelect + w.String() + ` ORDER BY c.date DESC, c.id DESC` + w.page(limit, 0)
	return r.queryContactLogs(ctx, query, w.args...)
}

// ListContactFollowUps returns logs needing follow-up with a follow-up date in range
func (r *Repository) ListContactFollowUps(ctx context.Context, from, to *models.Date) ([]models.ContactLog, error) {
	w := &where{}
	w.add("c.follow_up_needed = ?", true)
	w.add("c.follow_up_date IS NOT NULL")
	if from != nil {
		w.add("c.follow_up_date >= ?", *from)
	}
	if to != nil {
		w.add("c.follow_up_date <= ?", *to)
	}
	return r.queryContactLogs(ctx, contactLogSelect+w.String()+` ORDER BY c.follow_up_date, c.id`, w.args...)
}

// DeleteContactLog removes a contact log
func (r *Repository) DeleteContactLog(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contact_logs WHERE id = $1`, id)
	return expectRows(res, err, "delete contact log")
}

func (r *Repository) queryContactLogs(ctx context.Context, query string, args ...any) ([]models.ContactLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact logs: %w", err)
	}
	defer rows.Close()

	logs := []models.ContactLog{}
	for rows.Next() {
		c, err := scanContactLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact log: %w", err)
		}
		logs = append(logs, *c)
	}
	return logs, rows.Err()
}
