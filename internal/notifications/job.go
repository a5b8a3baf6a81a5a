package notifications

import (
	"context"
	"fmt"

	"github.com/Dan9191/control-center/internal/models"
)

// SettingsLoader returns the current email settings, or defaults
type SettingsLoader interface {
	LoadEmailSettings(ctx context.Context) (models.EmailSettings, error)
}

// Job adapts one notification check to the scheduler. Settings are loaded
// once at the start of every run.
type Job struct {
	name     string
	notifier *Notifier
	settings SettingsLoader
}

// Job returns a schedulable job for the named check
func (n *Notifier) Job(name string, settings SettingsLoader) *Job {
	return &Job{name: name, notifier: n, settings: settings}
}

func (j *Job) Name() string {
	return j.name
}

// Run loads settings and dispatches the check
func (j *Job) Run(ctx context.Context) error {
	settings, err := j.settings.LoadEmailSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load email settings: %w", err)
	}
	res, err := j.notifier.Run(ctx, j.name, settings)
	if err != nil {
		return err
	}
	j.notifier.log.WithField("job", j.name).Debug(res.Message)
	return nil
}
