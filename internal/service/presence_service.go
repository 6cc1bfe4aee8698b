package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ins72/mewayz-9913-sub005/internal/broadcast"
	"github.com/ins72/mewayz-9913-sub005/internal/cache"
	"github.com/ins72/mewayz-9913-sub005/internal/config"
	"github.com/ins72/mewayz-9913-sub005/internal/domain"
	"github.com/ins72/mewayz-9913-sub005/internal/metrics"
	"github.com/ins72/mewayz-9913-sub005/internal/response"
)

// JoinResult is the outcome of a join: the caller's record and everyone
// present in the workspace, the caller included.
type JoinResult struct {
	Record      *domain.PresenceRecord
	ActiveUsers []*domain.PresenceRecord
}

// CursorUpdate is the payload broadcast for a cursor move.
type CursorUpdate struct {
	UserID         string    `json:"userId"`
	CursorPosition any       `json:"cursorPosition"`
	Timestamp      time.Time `json:"timestamp"`
}

// PresenceService defines the interface for workspace presence tracking
type PresenceService interface {
	Join(ctx context.Context, workspaceID string, caller domain.Caller) (*JoinResult, error)
	Leave(ctx context.Context, workspaceID, userID string) error
	Touch(ctx context.Context, workspaceID, userID string) (bool, error)
	ListActive(ctx context.Context, workspaceID string) ([]*domain.PresenceRecord, error)
	UpdateCursor(ctx context.Context, workspaceID, userID string, cursorPosition any) (*CursorUpdate, error)
}

// presenceServiceImpl is the implementation of PresenceService
type presenceServiceImpl struct {
	collabDeps
}

// NewPresenceService creates a new instance of PresenceService
func NewPresenceService(
	store cache.Store,
	publisher broadcast.Publisher,
	cfg config.PresenceConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) PresenceService {
	return &presenceServiceImpl{collabDeps: newCollabDeps(store, publisher, cfg, m, logger)}
}

// Join stores a fresh presence record for caller and announces it
func (s *presenceServiceImpl) Join(ctx context.Context, workspaceID string, caller domain.Caller) (*JoinResult, error) {
	if err := requireFields("workspaceId", workspaceID, "userId", caller.ID); err != nil {
		return nil, err
	}

	record := domain.NewPresenceRecord(caller, s.now())
	if err := s.putRecord(ctx, workspaceID, record); err != nil {
		return nil, err
	}
	s.metrics.IncrementPresenceJoin()

	if err := s.publish(ctx, workspaceID, broadcast.EventUserJoined, record); err != nil {
		return nil, err
	}

	active, err := s.ListActive(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	// The scan may race the write on a replicated store; the caller must
	// always see their own record.
	found := false
	for i, r := range active {
		if r.UserID == record.UserID {
			active[i] = record
			found = true
			break
		}
	}
	if !found {
		active = append(active, record)
	}

	s.logger.Info("User joined workspace",
		zap.String("workspace_id", workspaceID),
		zap.String("user_id", caller.ID),
		zap.Int("active_users", len(active)))

	return &JoinResult{Record: record, ActiveUsers: active}, nil
}

// Leave removes the user's presence record. Absent records are not an error.
func (s *presenceServiceImpl) Leave(ctx context.Context, workspaceID, userID string) error {
	if err := requireFields("workspaceId", workspaceID, "userId", userID); err != nil {
		return err
	}

	if err := s.store.Forget(ctx, presenceKey(workspaceID, userID)); err != nil {
		return s.storeFailure("presence_forget", err)
	}
	s.metrics.IncrementPresenceLeave()

	return s.publish(ctx, workspaceID, broadcast.EventUserLeft, map[string]string{"userId": userID})
}

// Touch refreshes lastActivityAt and the TTL of an existing record.
// It reports false without writing when the user is not present.
func (s *presenceServiceImpl) Touch(ctx context.Context, workspaceID, userID string) (bool, error) {
	if err := requireFields("workspaceId", workspaceID, "userId", userID); err != nil {
		return false, err
	}

	raw, err := s.store.Get(ctx, presenceKey(workspaceID, userID))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return false, nil
		}
		return false, s.storeFailure("presence_get", err)
	}

	var record domain.PresenceRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return false, response.WrapAppError(response.ErrCodeInternal, "Corrupt presence record", err)
	}

	record.LastActivityAt = s.now()
	if err := s.putRecord(ctx, workspaceID, &record); err != nil {
		return false, err
	}
	return true, nil
}

// ListActive returns every live presence record of the workspace in store order
func (s *presenceServiceImpl) ListActive(ctx context.Context, workspaceID string) ([]*domain.PresenceRecord, error) {
	if err := requireFields("workspaceId", workspaceID); err != nil {
		return nil, err
	}

	values, err := s.store.ScanPrefix(ctx, presencePrefix(workspaceID))
	if err != nil {
		return nil, s.storeFailure("presence_scan", err)
	}

	records := make([]*domain.PresenceRecord, 0, len(values))
	for _, raw := range values {
		var record domain.PresenceRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			s.logger.Warn("Skipping malformed presence record",
				zap.String("workspace_id", workspaceID),
				zap.Error(err))
			continue
		}
		records = append(records, &record)
	}
	return records, nil
}

// UpdateCursor counts as activity for the user and broadcasts the new position
func (s *presenceServiceImpl) UpdateCursor(ctx context.Context, workspaceID, userID string, cursorPosition any) (*CursorUpdate, error) {
	if err := requireFields("workspaceId", workspaceID, "userId", userID); err != nil {
		return nil, err
	}
	if cursorPosition == nil {
		return nil, response.NewAppError(response.ErrCodeValidation, "cursorPosition is required", "")
	}

	present, err := s.Touch(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, response.NewAppError(response.ErrCodeNotFound, "User is not present in workspace", "")
	}

	update := &CursorUpdate{
		UserID:         userID,
		CursorPosition: cursorPosition,
		Timestamp:      s.now(),
	}
	if err := s.publish(ctx, workspaceID, broadcast.EventCursorMoved, update); err != nil {
		return nil, err
	}
	return update, nil
}

func (s *presenceServiceImpl) putRecord(ctx context.Context, workspaceID string, record *domain.PresenceRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return response.WrapAppError(response.ErrCodeInternal, "Failed to encode presence record", err)
	}
	if err := s.store.Put(ctx, presenceKey(workspaceID, record.UserID), data, s.cfg.PresenceTTL); err != nil {
		return s.storeFailure("presence_put", err)
	}
	return nil
}
