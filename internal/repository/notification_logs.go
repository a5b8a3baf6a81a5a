package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/control-center/internal/models"
)

// CreateNotificationLog records the outcome of a notification run
func (r *Repository) CreateNotificationLog(ctx context.Context, l *models.NotificationLog) error {
	l.CreatedAt = r.timestamp()
	query := `
		INSERT INTO notification_logs (job, subject, recipient, item_count, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, l.Job, l.Subject, l.Recipient, l.ItemCount, l.Status, l.Error,
		l.CreatedAt).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("failed to create notification log: %w", err)
	}
	return nil
}

// ListNotificationLogs returns the newest notification runs, optionally for one job
func (r *Repository) ListNotificationLogs(ctx context.Context, job string, limit int) ([]models.NotificationLog, error) {
	w := &where{}
	if job != "" {
		w.add("job = ?", job)
	}
	query := `SELECT id, job, subject, recipient, item_count, status, error, created_at FROM notification_logs` +
		w.String() + ` ORDER BY created_at DESC, id DESC` + w.page(limit, 0)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notification logs: %w", err)
	}
	defer rows.Close()

	logs := []models.NotificationLog{}
	for rows.Next() {
		var l models.NotificationLog
		if err := rows.Scan(&l.ID, &l.Job, &l.Subject, &l.Recipient, &l.ItemCount, &l.Status, &l.Error,
			&l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
