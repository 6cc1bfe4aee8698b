package service

import (
	"context"
	"encoding/json"
	"sort"

	"go.uber.org/zap"

	"github.com/ins72/mewayz-9913-sub005/internal/broadcast"
	"github.com/ins72/mewayz-9913-sub005/internal/cache"
	"github.com/ins72/mewayz-9913-sub005/internal/config"
	"github.com/ins72/mewayz-9913-sub005/internal/domain"
	"github.com/ins72/mewayz-9913-sub005/internal/metrics"
	"github.com/ins72/mewayz-9913-sub005/internal/response"
)

// ActivityService defines the interface for the workspace activity log
type ActivityService interface {
	GetFeed(ctx context.Context, workspaceID string, limit int) ([]*domain.ActivityEntry, error)
	Record(ctx context.Context, workspaceID string, entry *domain.ActivityEntry) error
	TrimFeeds(ctx context.Context) (int, error)
}

// activityServiceImpl is the implementation of ActivityService
type activityServiceImpl struct {
	collabDeps
}

// NewActivityService creates a new instance of ActivityService
func NewActivityService(
	store cache.Store,
	publisher broadcast.Publisher,
	cfg config.PresenceConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) ActivityService {
	return &activityServiceImpl{collabDeps: newCollabDeps(store, publisher, cfg, m, logger)}
}

// GetFeed returns the newest entries first. Entries with equal timestamps
// keep their stored order. A non-positive limit means the configured default.
func (s *activityServiceImpl) GetFeed(ctx context.Context, workspaceID string, limit int) ([]*domain.ActivityEntry, error) {
	if err := requireFields("workspaceId", workspaceID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = s.cfg.FeedLimit
	}
	if limit > s.cfg.FeedMaxEntries {
		limit = s.cfg.FeedMaxEntries
	}

	items, err := s.store.ListRange(ctx, activityKey(workspaceID))
	if err != nil {
		return nil, s.storeFailure("activity_range", err)
	}

	entries := make([]*domain.ActivityEntry, 0, len(items))
	for _, raw := range items {
		var entry domain.ActivityEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			s.logger.Warn("Skipping malformed activity entry",
				zap.String("workspace_id", workspaceID),
				zap.Error(err))
			continue
		}
		entries = append(entries, &entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Record appends an entry to the workspace log, dropping the oldest beyond
// the configured maximum
func (s *activityServiceImpl) Record(ctx context.Context, workspaceID string, entry *domain.ActivityEntry) error {
	if err := requireFields("workspaceId", workspaceID); err != nil {
		return err
	}
	if entry == nil {
		return response.NewAppError(response.ErrCodeValidation, "entry is required", "")
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return response.WrapAppError(response.ErrCodeInternal, "Failed to encode activity entry", err)
	}

	if err := s.store.ListAppend(ctx, activityKey(workspaceID), data, s.cfg.FeedMaxEntries, s.cfg.ActivityTTL); err != nil {
		return s.storeFailure("activity_append", err)
	}
	return nil
}

// TrimFeeds bounds every workspace log to the configured maximum and returns
// how many logs it visited
func (s *activityServiceImpl) TrimFeeds(ctx context.Context) (int, error) {
	keys, err := s.store.Keys(ctx, ActivityKeyPrefix)
	if err != nil {
		return 0, s.storeFailure("activity_keys", err)
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := s.store.ListTrim(ctx, key, s.cfg.FeedMaxEntries); err != nil {
			return 0, s.storeFailure("activity_trim", err)
		}
	}
	return len(keys), nil
}
