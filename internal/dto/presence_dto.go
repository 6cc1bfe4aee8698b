package dto

import (
	"time"

	"github.com/ins72/mewayz-9913-sub005/internal/domain"
)

// JoinPresenceResponse is returned when a user joins a workspace
type JoinPresenceResponse struct {
	User        *domain.PresenceRecord   `json:"user"`
	ActiveUsers []*domain.PresenceRecord `json:"activeUsers"`
}

// ActiveUsersResponse lists everyone present in a workspace
type ActiveUsersResponse struct {
	WorkspaceID string                   `json:"workspaceId"`
	ActiveUsers []*domain.PresenceRecord `json:"activeUsers"`
	Count       int                      `json:"count"`
}

// HeartbeatResponse reports whether a presence record was refreshed
type HeartbeatResponse struct {
	Active bool `json:"active"`
}

// UpdateCursorRequest carries an opaque cursor position
type UpdateCursorRequest struct {
	CursorPosition any `json:"cursorPosition"`
}

// CursorResponse echoes the broadcast cursor update
type CursorResponse struct {
	UserID         string    `json:"userId"`
	CursorPosition any       `json:"cursorPosition"`
	Timestamp      time.Time `json:"timestamp"`
}
