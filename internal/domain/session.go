package domain

import "time"

// SessionStatus is the lifecycle state of a collaborative session.
// The only transition is active -> ended.
type SessionStatus string

const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusEnded  SessionStatus = "ended"
)

// CollaborativeSession is an ad-hoc shared session inside a workspace.
// The host is fixed at creation and is always a participant.
type CollaborativeSession struct {
	SessionID    string         `json:"sessionId"`
	WorkspaceID  string         `json:"workspaceId"`
	Type         string         `json:"type"`
	HostUserID   string         `json:"hostUserId"`
	HostUserName string         `json:"hostUserName"`
	Participants []string       `json:"participants"`
	Data         map[string]any `json:"data,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	Status       SessionStatus  `json:"status"`
	EndedAt      *time.Time     `json:"endedAt,omitempty"`
}

// HasParticipant reports whether userID already belongs to the session.
func (s *CollaborativeSession) HasParticipant(userID string) bool {
	for _, id := range s.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// AddParticipant adds userID once; it returns false when already present.
func (s *CollaborativeSession) AddParticipant(userID string) bool {
	if s.HasParticipant(userID) {
		return false
	}
	s.Participants = append(s.Participants, userID)
	return true
}

// IsHost reports whether userID created the session.
func (s *CollaborativeSession) IsHost(userID string) bool {
	return s.HostUserID == userID
}

// End marks the session ended at now.
func (s *CollaborativeSession) End(now time.Time) {
	s.Status = SessionStatusEnded
	s.EndedAt = &now
}
