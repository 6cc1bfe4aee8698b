// Package broadcast carries collaboration events from the services to every
// connected client. Publishing is fire-and-forget: the caller learns only
// whether the broker accepted the message, never whether anyone received it.
package broadcast

import (
	"context"
	"encoding/json"
	"time"
)

// Event names emitted on workspace channels.
const (
	EventUserJoined        = "user_joined"
	EventUserLeft          = "user_left"
	EventCursorMoved       = "cursor_moved"
	EventDocumentUpdated   = "document_updated"
	EventSessionStarted    = "session_started"
	EventUserJoinedSession = "user_joined_session"
	EventSessionEnded      = "session_ended"
)

// Event is the wire envelope published on a channel.
type Event struct {
	Event     string          `json:"event"`
	Channel   string          `json:"channel"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, channel, event string, payload any) error
}

// Subscriber streams events for one channel until the returned cancel func
// is called or ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan Event, func(), error)
}

// Broker is both halves; the redis and in-memory implementations satisfy it.
type Broker interface {
	Publisher
	Subscriber
	Close() error
}

// WorkspaceChannel is the topic every event scoped to a workspace goes to.
func WorkspaceChannel(workspaceID string) string {
	return "workspace." + workspaceID
}

func newEvent(channel, event string, payload any, now time.Time) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Event:     event,
		Channel:   channel,
		Payload:   raw,
		Timestamp: now.UTC(),
	}, nil
}
