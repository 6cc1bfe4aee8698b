package domain

import "time"

// ActivityEntry is one item of a workspace's recent-activity log. The log is
// written by other services; this service only reads, sorts and truncates it.
type ActivityEntry struct {
	Type      string         `json:"type,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
