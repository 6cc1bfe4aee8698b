package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ins72/mewayz-9913-sub005/internal/broadcast"
	"github.com/ins72/mewayz-9913-sub005/internal/cache"
	"github.com/ins72/mewayz-9913-sub005/internal/config"
	"github.com/ins72/mewayz-9913-sub005/internal/metrics"
	"github.com/ins72/mewayz-9913-sub005/internal/response"
)

// collabDeps is what every collaboration service needs: the shared store,
// the workspace publisher and the TTL settings. Services keep no other state.
type collabDeps struct {
	store     cache.Store
	publisher broadcast.Publisher
	cfg       config.PresenceConfig
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

func newCollabDeps(
	store cache.Store,
	publisher broadcast.Publisher,
	cfg config.PresenceConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) collabDeps {
	if logger == nil {
		logger = zap.NewNop()
	}
	return collabDeps{
		store:     store,
		publisher: publisher,
		cfg:       cfg,
		metrics:   m,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// storeFailure converts a store error into the AppError handed to callers.
func (d *collabDeps) storeFailure(operation string, err error) error {
	d.metrics.RecordStoreError(operation)
	d.logger.Error("Store operation failed",
		zap.String("operation", operation),
		zap.Error(err))

	if errors.Is(err, cache.ErrUnavailable) {
		return response.WrapAppError(response.ErrCodeServiceUnavailable, "Collaboration store unavailable", err)
	}
	return response.WrapAppError(response.ErrCodeInternal, "Collaboration store failure", err)
}

// publish sends one event to the workspace channel.
func (d *collabDeps) publish(ctx context.Context, workspaceID, event string, payload any) error {
	err := d.publisher.Publish(ctx, broadcast.WorkspaceChannel(workspaceID), event, payload)
	d.metrics.RecordEventPublished(event, err)
	if err != nil {
		d.logger.Error("Failed to publish event",
			zap.String("event", event),
			zap.String("workspace_id", workspaceID),
			zap.Error(err))
		return response.WrapAppError(response.ErrCodeServiceUnavailable, "Failed to publish "+event, err)
	}
	return nil
}

// requireFields returns a validation error naming the first blank field.
// Pairs are name, value.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return response.NewAppError(response.ErrCodeValidation, pairs[i]+" is required", "")
		}
	}
	return nil
}
