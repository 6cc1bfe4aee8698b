package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ins72/mewayz-9913-sub005/internal/broadcast"
	"github.com/ins72/mewayz-9913-sub005/internal/cache"
	"github.com/ins72/mewayz-9913-sub005/internal/config"
	"github.com/ins72/mewayz-9913-sub005/internal/domain"
	"github.com/ins72/mewayz-9913-sub005/internal/metrics"
	"github.com/ins72/mewayz-9913-sub005/internal/response"
)

// SessionService defines the interface for collaborative session lifecycle
type SessionService interface {
	StartSession(ctx context.Context, workspaceID string, host domain.Caller, sessionType string, data map[string]any) (*domain.CollaborativeSession, error)
	JoinSession(ctx context.Context, workspaceID, sessionID string, user domain.Caller) (*domain.CollaborativeSession, error)
	EndSession(ctx context.Context, workspaceID, sessionID string, requester domain.Caller) (*domain.CollaborativeSession, error)
	GetSession(ctx context.Context, workspaceID, sessionID string) (*domain.CollaborativeSession, error)
}

// sessionServiceImpl is the implementation of SessionService
type sessionServiceImpl struct {
	collabDeps
	newID func() string
}

// NewSessionService creates a new instance of SessionService
func NewSessionService(
	store cache.Store,
	publisher broadcast.Publisher,
	cfg config.PresenceConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) SessionService {
	return &sessionServiceImpl{
		collabDeps: newCollabDeps(store, publisher, cfg, m, logger),
		newID:      uuid.NewString,
	}
}

// StartSession creates an active session hosted by host
func (s *sessionServiceImpl) StartSession(ctx context.Context, workspaceID string, host domain.Caller, sessionType string, data map[string]any) (*domain.CollaborativeSession, error) {
	if err := requireFields("workspaceId", workspaceID, "userId", host.ID, "type", sessionType); err != nil {
		return nil, err
	}

	session := &domain.CollaborativeSession{
		SessionID:    s.newID(),
		WorkspaceID:  workspaceID,
		Type:         sessionType,
		HostUserID:   host.ID,
		HostUserName: host.Name,
		Participants: []string{host.ID},
		Data:         data,
		CreatedAt:    s.now(),
		Status:       domain.SessionStatusActive,
	}

	if err := s.putSession(ctx, session, s.cfg.SessionTTL); err != nil {
		return nil, err
	}
	s.metrics.IncrementSessionStarted()

	if err := s.publish(ctx, workspaceID, broadcast.EventSessionStarted, session); err != nil {
		return nil, err
	}

	s.logger.Info("Collaborative session started",
		zap.String("workspace_id", workspaceID),
		zap.String("session_id", session.SessionID),
		zap.String("type", sessionType))

	return session, nil
}

// JoinSession adds user to the participants once. Ended sessions can still
// be joined until they expire.
func (s *sessionServiceImpl) JoinSession(ctx context.Context, workspaceID, sessionID string, user domain.Caller) (*domain.CollaborativeSession, error) {
	if err := requireFields("workspaceId", workspaceID, "sessionId", sessionID, "userId", user.ID); err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, workspaceID, sessionID)
	if err != nil {
		return nil, err
	}

	session.AddParticipant(user.ID)
	if err := s.putSession(ctx, session, s.cfg.SessionTTL); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"sessionId":    session.SessionID,
		"userId":       user.ID,
		"userName":     user.Name,
		"participants": session.Participants,
	}
	if err := s.publish(ctx, workspaceID, broadcast.EventUserJoinedSession, payload); err != nil {
		return nil, err
	}
	return session, nil
}

// EndSession lets the host close the session; it is kept for history until
// the ended-session TTL lapses.
func (s *sessionServiceImpl) EndSession(ctx context.Context, workspaceID, sessionID string, requester domain.Caller) (*domain.CollaborativeSession, error) {
	if err := requireFields("workspaceId", workspaceID, "sessionId", sessionID, "userId", requester.ID); err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, workspaceID, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.IsHost(requester.ID) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the session host can end the session", "")
	}

	session.End(s.now())
	if err := s.putSession(ctx, session, s.cfg.EndedSessionTTL); err != nil {
		return nil, err
	}
	s.metrics.IncrementSessionEnded()

	payload := map[string]any{
		"sessionId": session.SessionID,
		"endedBy":   requester.ID,
		"endedAt":   session.EndedAt,
	}
	if err := s.publish(ctx, workspaceID, broadcast.EventSessionEnded, payload); err != nil {
		return nil, err
	}

	s.logger.Info("Collaborative session ended",
		zap.String("workspace_id", workspaceID),
		zap.String("session_id", sessionID))

	return session, nil
}

// GetSession reads a session without touching its TTL
func (s *sessionServiceImpl) GetSession(ctx context.Context, workspaceID, sessionID string) (*domain.CollaborativeSession, error) {
	if err := requireFields("workspaceId", workspaceID, "sessionId", sessionID); err != nil {
		return nil, err
	}
	return s.loadSession(ctx, workspaceID, sessionID)
}

func (s *sessionServiceImpl) loadSession(ctx context.Context, workspaceID, sessionID string) (*domain.CollaborativeSession, error) {
	raw, err := s.store.Get(ctx, sessionKey(workspaceID, sessionID))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Session not found", "")
		}
		return nil, s.storeFailure("session_get", err)
	}

	var session domain.CollaborativeSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, response.WrapAppError(response.ErrCodeInternal, "Corrupt session record", err)
	}
	return &session, nil
}

func (s *sessionServiceImpl) putSession(ctx context.Context, session *domain.CollaborativeSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return response.WrapAppError(response.ErrCodeInternal, "Failed to encode session", err)
	}
	if err := s.store.Put(ctx, sessionKey(session.WorkspaceID, session.SessionID), data, ttl); err != nil {
		return s.storeFailure("session_put", err)
	}
	return nil
}
