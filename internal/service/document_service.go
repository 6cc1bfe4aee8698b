package service

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/ins72/mewayz-9913-sub005/internal/broadcast"
	"github.com/ins72/mewayz-9913-sub005/internal/cache"
	"github.com/ins72/mewayz-9913-sub005/internal/config"
	"github.com/ins72/mewayz-9913-sub005/internal/domain"
	"github.com/ins72/mewayz-9913-sub005/internal/metrics"
	"github.com/ins72/mewayz-9913-sub005/internal/response"
)

// DocumentService defines the interface for document version stamping
type DocumentService interface {
	BumpVersion(ctx context.Context, documentID string) (int64, error)
	CurrentVersion(ctx context.Context, documentID string) (*domain.DocumentVersion, error)
	UpdateDocument(ctx context.Context, workspaceID, documentID string, caller domain.Caller, changes map[string]any) (map[string]any, error)
}

// documentServiceImpl is the implementation of DocumentService
type documentServiceImpl struct {
	collabDeps
	presence PresenceService
}

// NewDocumentService creates a new instance of DocumentService. presence may
// be nil, in which case edits do not refresh the editor's presence.
func NewDocumentService(
	store cache.Store,
	publisher broadcast.Publisher,
	presence PresenceService,
	cfg config.PresenceConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) DocumentService {
	return &documentServiceImpl{
		collabDeps: newCollabDeps(store, publisher, cfg, m, logger),
		presence:   presence,
	}
}

// BumpVersion atomically increments the document's version and resets its TTL.
// An expired counter starts again at 1.
func (s *documentServiceImpl) BumpVersion(ctx context.Context, documentID string) (int64, error) {
	if err := requireFields("documentId", documentID); err != nil {
		return 0, err
	}

	version, err := s.store.Increment(ctx, documentVersionKey(documentID), s.cfg.DocumentTTL)
	if err != nil {
		return 0, s.storeFailure("document_increment", err)
	}
	return version, nil
}

// CurrentVersion reads the version without changing it; 0 when never written or expired
func (s *documentServiceImpl) CurrentVersion(ctx context.Context, documentID string) (*domain.DocumentVersion, error) {
	if err := requireFields("documentId", documentID); err != nil {
		return nil, err
	}

	result := &domain.DocumentVersion{DocumentID: documentID}
	raw, err := s.store.Get(ctx, documentVersionKey(documentID))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return result, nil
		}
		return nil, s.storeFailure("document_get", err)
	}

	version, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return nil, response.WrapAppError(response.ErrCodeInternal, "Corrupt document version", err)
	}
	result.Version = version
	return result, nil
}

// UpdateDocument stamps the caller's changes with the next version and
// broadcasts them. Conflict resolution is left to consumers of the version.
func (s *documentServiceImpl) UpdateDocument(ctx context.Context, workspaceID, documentID string, caller domain.Caller, changes map[string]any) (map[string]any, error) {
	if err := requireFields("workspaceId", workspaceID, "documentId", documentID, "userId", caller.ID); err != nil {
		return nil, err
	}
	if changes == nil {
		return nil, response.NewAppError(response.ErrCodeValidation, "changes is required", "")
	}

	version, err := s.BumpVersion(ctx, documentID)
	if err != nil {
		return nil, err
	}

	payload := make(map[string]any, len(changes)+4)
	for k, v := range changes {
		payload[k] = v
	}
	payload["version"] = version
	payload["documentId"] = documentID
	payload["userId"] = caller.ID
	payload["updatedAt"] = s.now()

	if s.presence != nil {
		if _, err := s.presence.Touch(ctx, workspaceID, caller.ID); err != nil {
			s.logger.Warn("Failed to refresh editor presence",
				zap.String("workspace_id", workspaceID),
				zap.String("user_id", caller.ID),
				zap.Error(err))
		}
	}

	if err := s.publish(ctx, workspaceID, broadcast.EventDocumentUpdated, payload); err != nil {
		return nil, err
	}
	s.metrics.IncrementDocumentUpdate()

	s.logger.Debug("Document updated",
		zap.String("workspace_id", workspaceID),
		zap.String("document_id", documentID),
		zap.Int64("version", version))

	return payload, nil
}
