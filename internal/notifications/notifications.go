// Package notifications emails the admin about overdue tasks, upcoming
// reminders and stale follow-ups, and records every dispatch attempt.
package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/control-center/internal/models"
)

// Job names, also used as NotificationLog.Job
const (
	JobOverdueTasks      = "overdue_tasks"
	JobUpcomingReminders = "upcoming_reminders"
	JobStaleFollowUps    = "stale_followups"
)

// Jobs lists every notification job in run order
var Jobs = []string{JobOverdueTasks, JobUpcomingReminders, JobStaleFollowUps}

const (
	subjectPrefix   = "[Control Center]"
	reminderWindow  = 24 * time.Hour
	staleAfter      = 3 * 24 * time.Hour
	testSubject     = subjectPrefix + " Test Email"
	testMessageBody = "This is a test email from Control Center. If you see this, your SMTP settings are working."
)

// Mailer sends one message to the admin address of the given settings
type Mailer interface {
	Send(settings models.EmailSettings, subject, body string) error
}

// Store is the data needed by the notification checks
type Store interface {
	ListOverdueTasks(ctx context.Context, today models.Date) ([]models.Task, error)
	ListTasksWithReminderBetween(ctx context.Context, from, to models.Timestamp) ([]models.Task, error)
	ListStaleFollowUps(ctx context.Context, cutoff models.Timestamp) ([]models.FollowUp, error)
	CreateNotificationLog(ctx context.Context, l *models.NotificationLog) error
}

// Result describes what a run did
type Result struct {
	Job     string                    `json:"job"`
	Status  models.NotificationStatus `json:"status,omitempty"`
	Count   int                       `json:"count"`
	Message string                    `json:"message"`
}

// Notifier runs the notification checks
type Notifier struct {
	store  Store
	mailer Mailer
	log    *logrus.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewNotifier creates a notifier. Dates are computed in loc.
func NewNotifier(store Store, mailer Mailer, log *logrus.Logger, loc *time.Location) *Notifier {
	if loc == nil {
		loc = time.Local
	}
	return &Notifier{store: store, mailer: mailer, log: log, loc: loc, now: time.Now}
}

// WithClock overrides the clock
func (n *Notifier) WithClock(now func() time.Time) *Notifier {
	n.now = now
	return n
}

// digest is the message a check wants to send
type digest struct {
	count   int
	subject string
	body    string
}

// Run executes one job with the given settings
func (n *Notifier) Run(ctx context.Context, job string, settings models.EmailSettings) (Result, error) {
	var (
		d   digest
		err error
	)
	switch job {
	case JobOverdueTasks:
		d, err = n.overdueTasks(ctx)
	case JobUpcomingReminders:
		d, err = n.upcomingReminders(ctx)
	case JobStaleFollowUps:
		d, err = n.staleFollowUps(ctx)
	default:
		return Result{}, fmt.Errorf("unknown notification job %q", job)
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to check %s: %w", job, err)
	}
	return n.dispatch(ctx, job, settings, d)
}

func (n *Notifier) dispatch(ctx context.Context, job string, settings models.EmailSettings, d digest) (Result, error) {
	res := Result{Job: job, Count: d.count}
	if d.count == 0 {
		res.Message = "Nothing to report."
		return res, nil
	}

	entry := &models.NotificationLog{
		Job:       job,
		Subject:   d.subject,
		Recipient: settings.AdminEmail,
		ItemCount: d.count,
	}
	logger := n.log.WithFields(logrus.Fields{"job": job, "count": d.count})

	switch {
	case !settings.CanNotify():
		entry.Status = models.NotificationSkipped
		res.Message = "Notifications are disabled or SMTP is not configured."
		logger.Info("Notification skipped")
	default:
		if err := n.mailer.Send(settings, d.subject, d.body); err != nil {
			entry.Status = models.NotificationFailed
			entry.Error = err.Error()
			res.Message = fmt.Sprintf("Failed to send: %v", err)
			logger.WithError(err).Error("Notification failed")
		} else {
			entry.Status = models.NotificationSent
			res.Message = fmt.Sprintf("Sent %s to %s.", d.subject, settings.AdminEmail)
			logger.Info("Notification sent")
		}
	}
	res.Status = entry.Status

	if err := n.store.CreateNotificationLog(ctx, entry); err != nil {
		return res, err
	}
	if entry.Status == models.NotificationFailed {
		return res, fmt.Errorf("failed to send %s notification: %s", job, entry.Error)
	}
	return res, nil
}

func (n *Notifier) overdueTasks(ctx context.Context) (digest, error) {
	today := models.DateOf(n.now().In(n.loc))
	tasks, err := n.store.ListOverdueTasks(ctx, today)
	if err != nil || len(tasks) == 0 {
		return digest{}, err
	}

	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		days := today.DaysSince(*t.DueDate)
		lines = append(lines, fmt.Sprintf("  - %s%s - %d day(s) overdue", t.Title, stakeholderSuffix(t), days))
	}
	return digest{
		count:   len(tasks),
		subject: fmt.Sprintf("%s %d Overdue Task(s)", subjectPrefix, len(tasks)),
		body:    fmt.Sprintf("You have %d overdue task(s):\n\n%s", len(tasks), strings.Join(lines, "\n")),
	}, nil
}

func (n *Notifier) upcomingReminders(ctx context.Context) (digest, error) {
	now := n.now()
	tasks, err := n.store.ListTasksWithReminderBetween(ctx, models.NewTimestamp(now),
		models.NewTimestamp(now.Add(reminderWindow)))
	if err != nil || len(tasks) == 0 {
		return digest{}, err
	}

	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("  - %s%s - reminder at %s", t.Title, stakeholderSuffix(t),
			t.ReminderDate.In(n.loc).Format("2006-01-02 15:04")))
	}
	return digest{
		count:   len(tasks),
		subject: fmt.Sprintf("%s %d Upcoming Reminder(s)", subjectPrefix, len(tasks)),
		body:    fmt.Sprintf("Upcoming reminders (%d):\n\n%s", len(tasks), strings.Join(lines, "\n")),
	}, nil
}

func (n *Notifier) staleFollowUps(ctx context.Context) (digest, error) {
	now := n.now()
	followUps, err := n.store.ListStaleFollowUps(ctx, models.NewTimestamp(now.Add(-staleAfter)))
	if err != nil || len(followUps) == 0 {
		return digest{}, err
	}

	lines := make([]string, 0, len(followUps))
	for _, f := range followUps {
		days := int(now.Sub(f.OutreachDate.Time).Hours() / 24)
		lines = append(lines, fmt.Sprintf("  - %s re: %s (%s, %d day(s) ago)", f.Stakeholder.Name, f.TaskTitle,
			f.Method.Label(), days))
	}
	return digest{
		count:   len(followUps),
		subject: fmt.Sprintf("%s %d Stale Follow-up(s)", subjectPrefix, len(followUps)),
		body: fmt.Sprintf("You have %d stale follow-up(s) with no response:\n\n%s", len(followUps),
			strings.Join(lines, "\n")),
	}, nil
}

// SendTest sends a fixed message so the admin can verify SMTP settings
func (n *Notifier) SendTest(settings models.EmailSettings) (string, error) {
	if err := n.mailer.Send(settings, testSubject, testMessageBody); err != nil {
		return "", fmt.Errorf("failed to send test email: %w", err)
	}
	return fmt.Sprintf("Test email sent to %s.", settings.AdminEmail), nil
}

func stakeholderSuffix(t models.Task) string {
	if t.Stakeholder == nil {
		return ""
	}
	return " (" + t.Stakeholder.Name + ")"
}
