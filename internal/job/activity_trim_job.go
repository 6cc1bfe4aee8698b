package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ins72/mewayz-9913-sub005/internal/service"
)

// ActivityTrimJob keeps every workspace activity log within the configured
// maximum. Writers already trim on append; this catches logs written by
// producers that push without trimming.
type ActivityTrimJob struct {
	activityService service.ActivityService
	timeout         time.Duration
	logger          *zap.Logger
}

// NewActivityTrimJob creates a new ActivityTrimJob instance
func NewActivityTrimJob(activityService service.ActivityService, logger *zap.Logger) *ActivityTrimJob {
	return &ActivityTrimJob{
		activityService: activityService,
		timeout:         time.Minute,
		logger:          logger,
	}
}

// Run executes the trim job
func (j *ActivityTrimJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	visited, err := j.activityService.TrimFeeds(ctx)
	if err != nil {
		j.logger.Error("Activity trim job failed", zap.Error(err))
		return
	}

	j.logger.Info("Activity trim job completed",
		zap.Int("feeds", visited),
		zap.Duration("duration", time.Since(start)),
	)
}
