package domain

import "time"

// PresenceRecord marks one user as active in one workspace. At most one
// record exists per (workspace, user); it expires after the presence TTL
// unless touched.
type PresenceRecord struct {
	UserID         string    `json:"userId"`
	DisplayName    string    `json:"displayName"`
	Email          string    `json:"email"`
	AvatarURL      string    `json:"avatarUrl"`
	JoinedAt       time.Time `json:"joinedAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// NewPresenceRecord builds a fresh record for caller at now.
func NewPresenceRecord(caller Caller, now time.Time) *PresenceRecord {
	return &PresenceRecord{
		UserID:         caller.ID,
		DisplayName:    caller.Name,
		Email:          caller.Email,
		AvatarURL:      caller.AvatarURL,
		JoinedAt:       now,
		LastActivityAt: now,
	}
}

// DocumentVersion is the last-writer-wins stamp of a document.
type DocumentVersion struct {
	DocumentID string `json:"documentId"`
	Version    int64  `json:"version"`
}
