package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/control-center/internal/models"
)

const taskSelect = `
	SELECT t.id, t.title, t.description, t.due_date, t.reminder_date, t.status, t.priority, t.task_type,
		t.related_stakeholder_id, t.related_legal_matter_id, t.related_property_id, t.created_at, t.updated_at, t.completed_at,
		s.name, s.entity_type
	FROM tasks t
	LEFT JOIN stakeholders s ON s.id = t.related_stakeholder_id`

const taskDefaultOrder = "CASE WHEN t.due_date IS NULL THEN 1 ELSE 0 END, t.due_date, t.id"

var taskSorts = map[string]string{
	"title":    "t.title",
	"status":   "t.status",
	"priority": "t.priority",
	"due_date": "t.due_date",
}

func scanTask(row scanner) (*models.Task, error) {
	t := &models.Task{}
	var name, entityType sql.NullString
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &t.ReminderDate, &t.Status, &t.Priority,
		&t.TaskType, &t.RelatedStakeholderID, &t.RelatedLegalMatterID, &t.RelatedPropertyID, &t.CreatedAt, &t.UpdatedAt,
		&t.CompletedAt, &name, &entityType)
	if err != nil {
		return nil, err
	}
	if t.RelatedStakeholderID != nil && name.Valid {
		t.Stakeholder = &models.StakeholderRef{
			ID:         *t.RelatedStakeholderID,
			Name:       name.String,
			EntityType: models.EntityType(entityType.String),
		}
	}
	return t, nil
}

// CreateTask creates a new task
func (r *Repository) CreateTask(ctx context.Context, t *models.Task) error {
	now := r.timestamp()
	query := `
		INSERT INTO tasks (title, description, due_date, reminder_date, status, priority, task_type,
			related_stakeholder_id, related_legal_matter_id, related_property_id, created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, t.Title, t.Description, t.DueDate, t.ReminderDate, t.Status,
		t.Priority, t.TaskType, t.RelatedStakeholderID, t.RelatedLegalMatterID, t.RelatedPropertyID, now, now,
		t.CompletedAt).Scan(&t.ID)
	if err != nil {
		return mapWriteError(err, "create task")
	}
	t.CreatedAt, t.UpdatedAt = now, now
	return nil
}

// GetTask retrieves a task by id
func (r *Repository) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, taskSelect+` WHERE t.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return t, nil
}

// ListTasks returns tasks matching the filter
func (r *Repository) ListTasks(ctx context.Context, f models.TaskFilter) ([]models.Task, error) {
	w := &where{}
	if f.Query != "" {
		w.add("LOWER(t.title) LIKE ?", like(f.Query))
	}
	w.in("t.status", anySlice(f.Statuses))
	if f.Priority != "" {
		w.add("t.priority = ?", f.Priority)
	}
	if f.From != nil {
		w.add("t.due_date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("t.due_date <= ?", *f.To)
	}
	query := taskSelect + w.String() + orderBy(f.Sort, f.Desc, taskSorts, taskDefaultOrder) + w.page(f.Limit, f.Offset)
	return r.queryTasks(ctx, query, w.args...)
}

// ListOpenTasksForStakeholder returns incomplete tasks related to a stakeholder
func (r *Repository) ListOpenTasksForStakeholder(ctx context.Context, stakeholderID int64, limit int) ([]models.Task, error) {
	return r.listOpenTasksBy(ctx, "t.related_stakeholder_id", stakeholderID, limit)
}

// ListOpenTasksForProperty returns incomplete tasks related to a property
func (r *Repository) ListOpenTasksForProperty(ctx context.Context, propertyID int64, limit int) ([]models.Task, error) {
	return r.listOpenTasksBy(ctx, "t.related_property_id", propertyID, limit)
}

func (r *Repository) listOpenTasksBy(ctx context.Context, column string, id int64, limit int) ([]models.Task, error) {
	w := &where{}
	w.add(column+" = ?", id)
	w.add("t.status <> ?", models.TaskComplete)
	query := taskSelect + w.String() + ` ORDER BY ` + taskDefaultOrder + w.page(limit, 0)
	return r.queryTasks(ctx, query, w.args...)
}

// ListOverdueTasks returns incomplete tasks due before today
func (r *Repository) ListOverdueTasks(ctx context.Context, today models.Date) ([]models.Task, error) {
	query := taskSelect + ` WHERE t.due_date < $1 AND t.status <> $2 ORDER BY t.due_date, t.id`
	return r.queryTasks(ctx, query, today, models.TaskComplete)
}

// ListTasksDueBetween returns incomplete tasks with a due date in range; nil bounds are open
func (r *Repository) ListTasksDueBetween(ctx context.Context, from, to *models.Date) ([]models.Task, error) {
	w := &where{}
	w.add("t.due_date IS NOT NULL")
	w.add("t.status <> ?", models.TaskComplete)
	if from != nil {
		w.add("t.due_date >= ?", *from)
	}
	if to != nil {
		w.add("t.due_date <= ?", *to)
	}
	return r.queryTasks(ctx, taskSelect+w.String()+` ORDER BY t.due_date, t.id`, w.args...)
}

// ListTasksWithReminderBetween returns incomplete tasks with a reminder in [from, to]
func (r *Repository) ListTasksWithReminderBetween(ctx context.Context, from, to models.Timestamp) ([]models.Task, error) {
	query := taskSelect + ` WHERE t.reminder_date >= $1 AND t.reminder_date <= $2 AND t.status <> $3
		ORDER BY t.reminder_date, t.id`
	return r.queryTasks(ctx, query, from, to, models.TaskComplete)
}

// ListRecentTasks returns the most recently created tasks
func (r *Repository) ListRecentTasks(ctx context.Context, limit int) ([]models.Task, error) {
	return r.queryTasks(ctx, taskSelect+` ORDER BY t.created_at DESC, t.id DESC LIMIT $1`, limit)
}

// UpdateTask overwrites the editable fields of a task
func (r *Repository) UpdateTask(ctx context.Context, t *models.Task) error {
	now := r.timestamp()
	query := `
		UPDATE tasks
		SET title = $1, description = $2, due_date = $3, reminder_date = $4, status = $5, priority = $6,
			task_type = $7, related_stakeholder_id = $8, related_legal_matter_id = $9, related_property_id = $10,
			updated_at = $11, completed_at = $12
		WHERE id = $13`
	res, err := r.db.ExecContext(ctx, query, t.Title, t.Description, t.DueDate, t.ReminderDate, t.Status,
		t.Priority, t.TaskType, t.RelatedStakeholderID, t.RelatedLegalMatterID, t.RelatedPropertyID, now,
		t.CompletedAt, t.ID)
	if err := expectRows(res, err, "update task"); err != nil {
		return err
	}
	t.UpdatedAt = now
	return nil
}

// CompleteTasks marks the given incomplete tasks complete and returns how many changed
func (r *Repository) CompleteTasks(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	now := r.timestamp()
	w := &where{}
	w.add("status = ?", models.TaskComplete)
	w.add("completed_at = ?", now)
	w.add("updated_at = ?", now)
	set := w.clauses
	w.clauses = nil
	w.in("id", anySlice(ids))
	w.add("status <> ?", models.TaskComplete)
	query := `UPDATE tasks SET ` + joinComma(set) + w.String()
	res, err := r.db.ExecContext(ctx, query, w.args...)
	if err != nil {
		return 0, fmt.Errorf("failed to complete tasks: %w", err)
	}
	return res.RowsAffected()
}

// DeleteTask removes a task and its follow-ups
func (r *Repository) DeleteTask(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return expectRows(res, err, "delete task")
}

// DeleteTasks removes the given tasks and returns how many existed
func (r *Repository) DeleteTasks(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	w := &where{}
	w.in("id", anySlice(ids))
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks`+w.String(), w.args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tasks: %w", err)
	}
	return res.RowsAffected()
}

func (r *Repository) queryTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}
