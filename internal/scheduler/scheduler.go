package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job represents a scheduled job
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// Scheduler manages background jobs
type Scheduler struct {
	cron    *cron.Cron
	log     *logrus.Entry
	timeout time.Duration
}

// New creates a new scheduler. Schedules use the standard five cron fields
// evaluated in loc.
func New(log *logrus.Logger, loc *time.Location) *Scheduler {
	entry := log.WithField("component", "scheduler")
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cron.PrintfLogger(entry)),
			cron.WithChain(cron.Recover(cron.PrintfLogger(entry))),
		),
		log:     entry,
		timeout: 5 * time.Minute,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}

// AddJob registers a new job with cron schedule
// Schedule examples:
//   - "0 7 * * *"    - 7 AM daily
//   - "@hourly"      - Every hour
//   - "@every 30s"   - Every 30 seconds
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.RunNow(job); err != nil {
			s.log.WithError(err).WithField("job", job.Name()).Error("Job failed")
		}
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"schedule": schedule, "job": job.Name()}).Info("Job registered")
	return nil
}

// RunNow executes a job immediately (outside schedule)
func (s *Scheduler) RunNow(job Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	s.log.WithField("job", job.Name()).Debug("Running job")
	if err := job.Run(ctx); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"job": job.Name(), "duration": time.Since(start)}).Debug("Job completed")
	return nil
}
