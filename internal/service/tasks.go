package service

import (
	"context"
	"strings"

	"github.com/Dan9191/control-center/internal/models"
)

func (s *Service) normalizeTask(t *models.Task, previous *models.Task) error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return invalid("title", "is required")
	}
	if t.Status == "" {
		t.Status = models.TaskNotStarted
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if t.TaskType == "" {
		t.TaskType = models.TaskOneTime
	}
	if !t.Status.Valid() {
		return invalid("status", "unknown status %q", t.Status)
	}
	if !t.Priority.Valid() {
		return invalid("priority", "unknown priority %q", t.Priority)
	}
	if !t.TaskType.Valid() {
		return invalid("task_type", "unknown type %q", t.TaskType)
	}

	// completed_at follows the status
	switch {
	case !t.IsComplete():
		t.CompletedAt = nil
	case previous != nil && previous.IsComplete() && previous.CompletedAt != nil:
		t.CompletedAt = previous.CompletedAt
	case t.CompletedAt == nil:
		ts := s.timestamp()
		t.CompletedAt = &ts
	}
	return nil
}

// CreateTask validates and stores a task
func (s *Service) CreateTask(ctx context.Context, t *models.Task) error {
	if err := s.normalizeTask(t, nil); err != nil {
		return err
	}
	if err := s.repo.CreateTask(ctx, t); err != nil {
		return err
	}
	s.log.Infof("Task created: %d %s", t.ID, t.Title)
	return s.reloadTask(ctx, t)
}

// UpdateTask validates and saves a task
func (s *Service) UpdateTask(ctx context.Context, t *models.Task) error {
	previous, err := s.repo.GetTask(ctx, t.ID)
	if err != nil {
		return err
	}
	if err := s.normalizeTask(t, previous); err != nil {
		return err
	}
	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return err
	}
	return s.reloadTask(ctx, t)
}

func (s *Service) reloadTask(ctx context.Context, t *models.Task) error {
	saved, err := s.repo.GetTask(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *saved
	return nil
}

func (s *Service) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	return s.repo.GetTask(ctx, id)
}

func (s *Service) ListTasks(ctx context.Context, f models.TaskFilter) ([]models.Task, error) {
	return s.repo.ListTasks(ctx, f)
}

func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	return s.repo.DeleteTask(ctx, id)
}

// ToggleTaskComplete flips a task between complete and not started
func (s *Service) ToggleTaskComplete(ctx context.Context, id int64) (*models.Task, error) {
	t, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsComplete() {
		t.Status = models.TaskNotStarted
		t.CompletedAt = nil
	} else {
		ts := s.timestamp()
		t.Status = models.TaskComplete
		t.CompletedAt = &ts
	}
	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// BulkCompleteTasks marks the selected incomplete tasks complete
func (s *Service) BulkCompleteTasks(ctx context.Context, ids []int64) (int64, error) {
	n, err := s.repo.CompleteTasks(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.log.Infof("%d task(s) marked complete", n)
	return n, nil
}

// BulkDeleteTasks removes the selected tasks
func (s *Service) BulkDeleteTasks(ctx context.Context, ids []int64) (int64, error) {
	n, err := s.repo.DeleteTasks(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.log.Infof("%d task(s) deleted", n)
	return n, nil
}

// CreateFollowUp records an outreach on a task; the date defaults to now
func (s *Service) CreateFollowUp(ctx context.Context, f *models.FollowUp) error {
	if f.TaskID == 0 {
		return invalid("task_id", "is required")
	}
	if f.StakeholderID == 0 {
		return invalid("stakeholder_id", "is required")
	}
	if !f.Method.Valid() {
		return invalid("method", "unknown method %q", f.Method)
	}
	if f.OutreachDate.IsZero() {
		f.OutreachDate = s.timestamp()
	}
	if !f.ResponseReceived {
		f.ResponseDate = nil
	}
	if err := s.repo.CreateFollowUp(ctx, f); err != nil {
		return err
	}
	created, err := s.repo.GetFollowUp(ctx, f.ID)
	if err != nil {
		return err
	}
	*f = *created
	return nil
}

func (s *Service) ListFollowUps(ctx context.Context, taskID int64) ([]models.FollowUp, error) {
	return s.repo.ListFollowUpsForTask(ctx, taskID)
}

// MarkFollowUpResponded records a response received now
func (s *Service) MarkFollowUpResponded(ctx context.Context, id int64) (*models.FollowUp, error) {
	if err := s.repo.MarkFollowUpResponded(ctx, id, s.timestamp()); err != nil {
		return nil, err
	}
	return s.repo.GetFollowUp(ctx, id)
}

func (s *Service) DeleteFollowUp(ctx context.Context, id int64) error {
	return s.repo.DeleteFollowUp(ctx, id)
}
