package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/control-center/internal/models"
)

const followUpSelect = `
	SELECT f.id, f.task_id, f.stakeholder_id, f.outreach_date, f.method, f.response_received, f.response_date,
		f.notes_text, t.title, s.name, s.entity_type
	FROM follow_ups f
	JOIN tasks t ON t.id = f.task_id
	JOIN stakeholders s ON s.id = f.stakeholder_id`

func scanFollowUp(row scanner) (*models.FollowUp, error) {
	f := &models.FollowUp{}
	err := row.Scan(&f.ID, &f.TaskID, &f.StakeholderID, &f.OutreachDate, &f.Method, &f.ResponseReceived,
		&f.ResponseDate, &f.NotesText, &f.TaskTitle, &f.Stakeholder.Name, &f.Stakeholder.EntityType)
	if err != nil {
		return nil, err
	}
	f.Stakeholder.ID = f.StakeholderID
	return f, nil
}

// CreateFollowUp records an outreach attempt on a task
func (r *Repository) CreateFollowUp(ctx context.Context, f *models.FollowUp) error {
	query := `
		INSERT INTO follow_ups (task_id, stakeholder_id, outreach_date, method, response_received, response_date,
			notes_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, f.TaskID, f.StakeholderID, f.OutreachDate, f.Method,
		f.ResponseReceived, f.ResponseDate, f.NotesText).Scan(&f.ID)
	return mapWriteError(err, "create follow-up")
}

// GetFollowUp retrieves a follow-up by id
func (r *Repository) GetFollowUp(ctx context.Context, id int64) (*models.FollowUp, error) {
	f, err := scanFollowUp(r.db.QueryRowContext(ctx, followUpSelect+` WHERE f.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("follow-up %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find follow-up: %w", err)
	}
	return f, nil
}

// ListFollowUpsForTask returns the follow-ups of a task, newest first
func (r *Repository) ListFollowUpsForTask(ctx context.Context, taskID int64) ([]models.FollowUp, error) {
	return r.queryFollowUps(ctx, followUpSelect+` WHERE f.task_id = $1 ORDER BY f.outreach_date DESC, f.id DESC`, taskID)
}

// ListRecentFollowUps returns the newest follow-ups
func (r *Repository) ListRecentFollowUps(ctx context.Context, limit int) ([]models.FollowUp, error) {
	return r.queryFollowUps(ctx, followUpSelect+` ORDER BY f.outreach_date DESC, f.id DESC LIMIT $1`, limit)
}

// ListStaleFollowUps returns unanswered follow-ups sent strictly before cutoff
func (r *Repository) ListStaleFollowUps(ctx context.Context, cutoff models.Timestamp) ([]models.FollowUp, error) {
	query := followUpSelect + ` WHERE f.response_received = $1 AND f.outreach_date < $2
		ORDER BY f.outreach_date, f.id`
	return r.queryFollowUps(ctx, query, false, cutoff)
}

// ListOpenFollowUps returns every follow-up still waiting for a response
func (r *Repository) ListOpenFollowUps(ctx context.Context) ([]models.FollowUp, error) {
	return r.queryFollowUps(ctx, followUpSelect+` WHERE f.response_received = $1 ORDER BY f.outreach_date, f.id`, false)
}

// MarkFollowUpResponded records that a response arrived at the given time
func (r *Repository) MarkFollowUpResponded(ctx context.Context, id int64, at models.Timestamp) error {
	res, err := r.db.ExecContext(ctx, `UPDATE follow_ups SET response_received = $1, response_date = $2 WHERE id = $3`,
		true, at, id)
	return expectRows(res, err, "update follow-up")
}

// DeleteFollowUp removes a follow-up
func (r *Repository) DeleteFollowUp(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM follow_ups WHERE id = $1`, id)
	return expectRows(res, err, "delete follow-up")
}

func (r *Repository) queryFollowUps(ctx context.Context, query string, args ...any) ([]models.FollowUp, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list follow-ups: %w", err)
	}
	defer rows.Close()

	followUps := []models.FollowUp{}
	for rows.Next() {
		f, err := scanFollowUp(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan follow-up: %w", err)
		}
		followUps = append(followUps, *f)
	}
	return followUps, rows.Err()
}
