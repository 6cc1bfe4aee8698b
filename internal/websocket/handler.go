// Package websocket streams a workspace's collaboration events to browser
// clients. Each connection holds its own broker subscription, so any replica
// can serve any workspace.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ins72/mewayz-9913-sub005/internal/broadcast"
	"github.com/ins72/mewayz-9913-sub005/internal/domain"
	"github.com/ins72/mewayz-9913-sub005/internal/metrics"
	"github.com/ins72/mewayz-9913-sub005/internal/middleware"
	"github.com/ins72/mewayz-9913-sub005/internal/response"
	"github.com/ins72/mewayz-9913-sub005/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// Client message types accepted on the socket
const (
	MessageHeartbeat = "heartbeat"
	MessageCursor    = "cursor"
)

// ClientMessage is what a browser may send over an open connection
type ClientMessage struct {
	Type           string `json:"type"`
	CursorPosition any    `json:"cursorPosition,omitempty"`
}

type client struct {
	conn        *gorillaws.Conn
	workspaceID string
	caller      domain.Caller
}

type Handler struct {
	subscriber broadcast.Subscriber
	presence   service.PresenceService
	metrics    *metrics.Metrics
	logger     *zap.Logger
	upgrader   gorillaws.Upgrader
}

func NewHandler(subscriber broadcast.Subscriber, presence service.PresenceService, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		subscriber: subscriber,
		presence:   presence,
		metrics:    m,
		logger:     logger,
		upgrader: gorillaws.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// ServeWorkspace godoc
// @Summary      Workspace event stream
// @Tags         websocket
// @Param        workspaceId path string true "Workspace ID (UUID)"
// @Param        token query string true "JWT Access Token"
// @Success      101 {string} string "Switching Protocols"
// @Router       /workspaces/{workspaceId}/ws [get]
func (h *Handler) ServeWorkspace(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Caller not found in context")
		return
	}
	workspaceID := c.Param("workspaceId")

	// Subscribe before upgrading so a broker outage is still a plain HTTP error
	ctx, cancel := context.WithCancel(context.Background())
	events, stop, err := h.subscriber.Subscribe(ctx, broadcast.WorkspaceChannel(workspaceID))
	if err != nil {
		cancel()
		h.logger.Error("Failed to subscribe to workspace channel",
			zap.String("workspace_id", workspaceID),
			zap.Error(err))
		response.SendError(c, http.StatusServiceUnavailable, response.ErrCodeServiceUnavailable, "Event stream unavailable")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		stop()
		cancel()
		h.logger.Warn("Failed to upgrade connection", zap.Error(err))
		return
	}

	cl := &client{conn: conn, workspaceID: workspaceID, caller: caller}
	h.metrics.WebSocketOpened()
	h.logger.Info("WebSocket connected",
		zap.String("workspace_id", workspaceID),
		zap.String("user_id", caller.ID))

	done := make(chan struct{})
	go h.writePump(cl, events, done)
	h.readPump(cl)

	close(done)
	stop()
	cancel()
	h.metrics.WebSocketClosed()
	h.logger.Info("WebSocket disconnected",
		zap.String("workspace_id", workspaceID),
		zap.String("user_id", caller.ID))
}

func (h *Handler) readPump(cl *client) {
	defer cl.conn.Close()

	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if gorillaws.IsUnexpectedCloseError(err, gorillaws.CloseGoingAway, gorillaws.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Debug("Ignoring malformed client message", zap.Error(err))
			continue
		}
		h.handleMessage(cl, &msg)
	}
}

func (h *Handler) handleMessage(cl *client, msg *ClientMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()

	var err error
	switch msg.Type {
	case MessageHeartbeat:
		_, err = h.presence.Touch(ctx, cl.workspaceID, cl.caller.ID)
	case MessageCursor:
		_, err = h.presence.UpdateCursor(ctx, cl.workspaceID, cl.caller.ID, msg.CursorPosition)
	default:
		h.logger.Debug("Unknown client message type", zap.String("type", msg.Type))
		return
	}
	if err != nil {
		h.logger.Warn("Failed to handle client message",
			zap.String("type", msg.Type),
			zap.String("workspace_id", cl.workspaceID),
			zap.String("user_id", cl.caller.ID),
			zap.Error(err))
	}
}

// writePump is the only writer on the connection
func (h *Handler) writePump(cl *client, events <-chan broadcast.Event, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case <-done:
			return

		case evt, ok := <-events:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(gorillaws.CloseMessage, gorillaws.FormatCloseMessage(gorillaws.CloseTryAgainLater, "event stream closed"))
				return
			}

			data, err := json.Marshal(evt)
			if err != nil {
				h.logger.Warn("Failed to encode event", zap.String("event", evt.Event), zap.Error(err))
				continue
			}
			if err := cl.conn.WriteMessage(gorillaws.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(gorillaws.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
