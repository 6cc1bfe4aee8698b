package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollaborativeSession_AddParticipantIsIdempotent(t *testing.T) {
	s := &CollaborativeSession{HostUserID: "a", Participants: []string{"a"}}

	assert.True(t, s.AddParticipant("b"))
	assert.False(t, s.AddParticipant("b"))
	assert.False(t, s.AddParticipant("a"))
	assert.Equal(t, []string{"a", "b"}, s.Participants)
}

func TestCollaborativeSession_End(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &CollaborativeSession{HostUserID: "a", Status: SessionStatusActive}

	assert.True(t, s.IsHost("a"))
	assert.False(t, s.IsHost("b"))

	s.End(now)
	assert.Equal(t, SessionStatusEnded, s.Status)
	if assert.NotNil(t, s.EndedAt) {
		assert.Equal(t, now, *s.EndedAt)
	}
}

func TestUser_ToCaller(t *testing.T) {
	u := &User{Name: "Ada", Email: "ada@example.com", AvatarURL: "https://cdn/ada.png"}
	u.ID = [16]byte{1}

	c := u.ToCaller()
	assert.Equal(t, u.ID.String(), c.ID)
	assert.Equal(t, "Ada", c.Name)
	assert.Equal(t, "ada@example.com", c.Email)
	assert.Equal(t, "https://cdn/ada.png", c.AvatarURL)
}
