package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ins72/mewayz-9913-sub005/internal/broadcast"
	"github.com/ins72/mewayz-9913-sub005/internal/domain"
	"github.com/ins72/mewayz-9913-sub005/internal/response"
)

func TestSessionService_StartSession(t *testing.T) {
	env := newTestEnv()
	svc := env.sessions()
	svc.newID = func() string { return "sess-1" }
	ctx := context.Background()

	data := map[string]any{"topic": "Q3 planning"}
	session, err := svc.StartSession(ctx, "w1", alice, "brainstorm", data)
	require.NoError(t, err)

	assert.Equal(t, "sess-1", session.SessionID)
	assert.Equal(t, "w1", session.WorkspaceID)
	assert.Equal(t, "brainstorm", session.Type)
	assert.Equal(t, alice.ID, session.HostUserID)
	assert.Equal(t, "Alice", session.HostUserName)
	assert.Equal(t, []string{alice.ID}, session.Participants)
	assert.Equal(t, domain.SessionStatusActive, session.Status)
	assert.Nil(t, session.EndedAt)
	assert.Equal(t, env.clock.Now(), session.CreatedAt)
	assert.Equal(t, data, session.Data)

	last := env.publisher.Last()
	assert.Equal(t, broadcast.EventSessionStarted, last.Event)
	assert.Equal(t, "workspace.w1", last.Channel)

	stored, err := svc.GetSession(ctx, "w1", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, session.Participants, stored.Participants)
}

func TestSessionService_SessionIDsAreUnique(t *testing.T) {
	env := newTestEnv()
	svc := env.sessions()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		session, err := svc.StartSession(ctx, "w1", alice, "review", nil)
		require.NoError(t, err)
		assert.False(t, seen[session.SessionID])
		seen[session.SessionID] = true
	}
}

func TestSessionService_JoinSessionIsIdempotent(t *testing.T) {
	env := newTestEnv()
	svc := env.sessions()
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "w1", alice, "brainstorm", nil)
	require.NoError(t, err)

	joined, err := svc.JoinSession(ctx, "w1", session.SessionID, bob)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID, bob.ID}, joined.Participants)

	again, err := svc.JoinSession(ctx, "w1", session.SessionID, bob)
	require.NoError(t, err)
	assert.Len(t, again.Participants, 2)

	host, err := svc.JoinSession(ctx, "w1", session.SessionID, alice)
	require.NoError(t, err)
	assert.Len(t, host.Participants, 2)

	last := env.publisher.Last()
	assert.Equal(t, broadcast.EventUserJoinedSession, last.Event)
}

func TestSessionService_JoinRefreshesTTL(t *testing.T) {
	env := newTestEnv()
	svc := env.sessions()
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "w1", alice, "pairing", nil)
	require.NoError(t, err)

	env.clock.Advance(7 * time.Hour)
	_, err = svc.JoinSession(ctx, "w1", session.SessionID, bob)
	require.NoError(t, err)

	env.clock.Advance(7 * time.Hour)
	_, err = svc.GetSession(ctx, "w1", session.SessionID)
	require.NoError(t, err)

	env.clock.Advance(2 * time.Hour)
	_, err = svc.JoinSession(ctx, "w1", session.SessionID, bob)
	assert.Equal(t, response.ErrCodeNotFound, response.CodeOf(err))
}

func TestSessionService_NotFound(t *testing.T) {
	env := newTestEnv()
	svc := env.sessions()
	ctx := context.Background()

	_, err := svc.JoinSession(ctx, "w1", "missing", bob)
	assert.Equal(t, response.ErrCodeNotFound, response.CodeOf(err))

	_, err = svc.EndSession(ctx, "w1", "missing", alice)
	assert.Equal(t, response.ErrCodeNotFound, response.CodeOf(err))

	// a session is only visible in its own workspace
	session, err := svc.StartSession(ctx, "w1", alice, "review", nil)
	require.NoError(t, err)
	_, err = svc.GetSession(ctx, "w2", session.SessionID)
	assert.Equal(t, response.ErrCodeNotFound, response.CodeOf(err))
}

func TestSessionService_OnlyHostCanEnd(t *testing.T) {
	env := newTestEnv()
	svc := env.sessions()
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "w1", alice, "brainstorm", nil)
	require.NoError(t, err)
	_, err = svc.JoinSession(ctx, "w1", session.SessionID, bob)
	require.NoError(t, err)
	published := len(env.publisher.Events())

	_, err = svc.EndSession(ctx, "w1", session.SessionID, bob)
	assert.Equal(t, response.ErrCodeForbidden, response.CodeOf(err))
	assert.Len(t, env.publisher.Events(), published)

	stored, err := svc.GetSession(ctx, "w1", session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusActive, stored.Status)
	assert.Nil(t, stored.EndedAt)
}

func TestSessionService_EndedSessionRetention(t *testing.T) {
	env := newTestEnv()
	svc := env.sessions()
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "w1", alice, "brainstorm", nil)
	require.NoError(t, err)

	env.clock.Advance(time.Hour)
	ended, err := svc.EndSession(ctx, "w1", session.SessionID, alice)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusEnded, ended.Status)
	require.NotNil(t, ended.EndedAt)
	assert.Equal(t, env.clock.Now(), *ended.EndedAt)

	last := env.publisher.Last()
	assert.Equal(t, broadcast.EventSessionEnded, last.Event)

	// kept past the active TTL for history
	env.clock.Advance(23 * time.Hour)
	stored, err := svc.GetSession(ctx, "w1", session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusEnded, stored.Status)

	env.clock.Advance(2 * time.Hour)
	_, err = svc.GetSession(ctx, "w1", session.SessionID)
	assert.Equal(t, response.ErrCodeNotFound, response.CodeOf(err))
}

// A starts, B joins, B cannot end, A ends, a later join still succeeds.
func TestSessionService_EndToEndScenario(t *testing.T) {
	env := newTestEnv()
	svc := env.sessions()
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "w1", alice, "brainstorm", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, session.Participants)
	assert.Equal(t, domain.SessionStatusActive, session.Status)

	session, err = svc.JoinSession(ctx, "w1", session.SessionID, bob)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID, bob.ID}, session.Participants)

	_, err = svc.EndSession(ctx, "w1", session.SessionID, bob)
	assert.Equal(t, response.ErrCodeForbidden, response.CodeOf(err))

	session, err = svc.EndSession(ctx, "w1", session.SessionID, alice)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusEnded, session.Status)
	assert.NotNil(t, session.EndedAt)

	carol := domain.Caller{ID: "user-c", Name: "Carol"}
	session, err = svc.JoinSession(ctx, "w1", session.SessionID, carol)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusEnded, session.Status)
	assert.Equal(t, []string{alice.ID, bob.ID, carol.ID}, session.Participants)

	var names []string
	for _, e := range env.publisher.Events() {
		names = append(names, e.Event)
	}
	assert.Equal(t, []string{
		broadcast.EventSessionStarted,
		broadcast.EventUserJoinedSession,
		broadcast.EventSessionEnded,
		broadcast.EventUserJoinedSession,
	}, names)
}

func TestSessionService_Validation(t *testing.T) {
	env := newTestEnv()
	svc := env.sessions()
	ctx := context.Background()

	_, err := svc.StartSession(ctx, "w1", alice, "", nil)
	assert.Equal(t, response.ErrCodeValidation, response.CodeOf(err))

	_, err = svc.JoinSession(ctx, "w1", "", bob)
	assert.Equal(t, response.ErrCodeValidation, response.CodeOf(err))

	_, err = svc.EndSession(ctx, "", "s", alice)
	assert.Equal(t, response.ErrCodeValidation, response.CodeOf(err))
}

func TestSessionService_StoreUnavailable(t *testing.T) {
	env := newTestEnv()
	svc := NewSessionService(unavailableStore{}, env.publisher, env.cfg, nil, zap.NewNop())

	_, err := svc.StartSession(context.Background(), "w1", alice, "review", nil)
	assert.Equal(t, response.ErrCodeServiceUnavailable, response.CodeOf(err))

	_, err = svc.JoinSession(context.Background(), "w1", "s", bob)
	assert.Equal(t, response.ErrCodeServiceUnavailable, response.CodeOf(err))
}
