package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ins72/mewayz-9913-sub005/internal/cache"
	"github.com/ins72/mewayz-9913-sub005/internal/metrics"
	"github.com/ins72/mewayz-9913-sub005/internal/service"
)

// MetricsCollectorJob refreshes the gauges derived from the shared store.
// Every replica reports the same cluster-wide numbers.
type MetricsCollectorJob struct {
	store   cache.Store
	metrics *metrics.Metrics
	timeout time.Duration
	logger  *zap.Logger
}

// NewMetricsCollectorJob creates a new MetricsCollectorJob instance
func NewMetricsCollectorJob(store cache.Store, m *metrics.Metrics, logger *zap.Logger) *MetricsCollectorJob {
	return &MetricsCollectorJob{
		store:   store,
		metrics: m,
		timeout: 30 * time.Second,
		logger:  logger,
	}
}

// Run executes the collector
func (j *MetricsCollectorJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	presence, err := j.store.Keys(ctx, service.PresenceKeyPrefix)
	if err != nil {
		j.metrics.RecordStoreError("collector_presence_keys")
		j.logger.Warn("Failed to count presence records", zap.Error(err))
		return
	}
	sessions, err := j.store.Keys(ctx, service.SessionKeyPrefix)
	if err != nil {
		j.metrics.RecordStoreError("collector_session_keys")
		j.logger.Warn("Failed to count sessions", zap.Error(err))
		return
	}

	j.metrics.SetPresentUsers(len(presence))
	j.metrics.SetActiveSessions(len(sessions))

	j.logger.Debug("Collected store metrics",
		zap.Int("present_users", len(presence)),
		zap.Int("sessions", len(sessions)),
	)
}
