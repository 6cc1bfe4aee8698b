package job

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Entry pairs a cron schedule with the job it runs
type Entry struct {
	Name     string
	Schedule string
	Job      cron.Job
}

// Scheduler runs background jobs on cron schedules
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler registers entries and returns a scheduler that is not yet
// started. Entries with an empty schedule are skipped. Overlapping runs of
// the same job are skipped rather than queued.
func NewScheduler(logger *zap.Logger, entries ...Entry) (*Scheduler, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	for _, e := range entries {
		if e.Schedule == "" {
			logger.Info("Job disabled", zap.String("job", e.Name))
			continue
		}
		if _, err := c.AddJob(e.Schedule, e.Job); err != nil {
			return nil, fmt.Errorf("invalid schedule %q for job %s: %w", e.Schedule, e.Name, err)
		}
		logger.Info("Job scheduled",
			zap.String("job", e.Name),
			zap.String("schedule", e.Schedule))
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Job scheduler stopped")
}

// Len reports how many jobs are scheduled
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}
