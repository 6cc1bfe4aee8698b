package dto

import (
	"time"

	"github.com/ins72/mewayz-9913-sub005/internal/domain"
)

// RecordActivityRequest is sent by other services to append to a workspace log
type RecordActivityRequest struct {
	Type      string         `json:"type" binding:"required"`
	UserID    string         `json:"userId"`
	Data      map[string]any `json:"data"`
	Timestamp *time.Time     `json:"timestamp"`
}

// ToEntry converts the request to a log entry; a missing timestamp is left
// zero for the service to fill in
func (r *RecordActivityRequest) ToEntry() *domain.ActivityEntry {
	entry := &domain.ActivityEntry{
		Type:   r.Type,
		UserID: r.UserID,
		Data:   r.Data,
	}
	if r.Timestamp != nil {
		entry.Timestamp = r.Timestamp.UTC()
	}
	return entry
}

// ActivityFeedResponse is the newest-first activity feed
type ActivityFeedResponse struct {
	WorkspaceID string                  `json:"workspaceId"`
	Activities  []*domain.ActivityEntry `json:"activities"`
	Count       int                     `json:"count"`
}
