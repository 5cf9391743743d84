package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/entrada-events/backend/internal/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins in dev; restrict in production
	},
}

// WSMessage is the WebSocket message envelope.
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Authenticate validates a raw token and returns the identity it carries.
type Authenticate func(token string) (auth.Identity, error)

// Authorize decides whether the identity may watch the event's feed.
type Authorize func(ctx context.Context, eventID uuid.UUID, id auth.Identity) error

// Client represents a single WebSocket connection watching one event's feed.
type Client struct {
	ID      string
	EventID uuid.UUID
	UserID  uuid.UUID
	Role    string
	hub     *Hub
	conn    *websocket.Conn
	send    chan WSMessage
	logger  *zap.Logger
}

// ServeWs handles the WebSocket upgrade for the live check-in feed. The token
// comes from the auth cookie or the token query parameter, and the caller must
// pass the same event access check as the REST endpoints.
func ServeWs(hub *Hub, logger *zap.Logger, authenticate Authenticate, authorize Authorize) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventIDStr := c.Query("event_id")
		if eventIDStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "event_id required"})
			return
		}
		eventID, err := uuid.Parse(eventIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event_id"})
			return
		}

		token := c.Query("token")
		if token == "" {
			token, _ = c.Cookie(auth.CookieName)
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		id, err := authenticate(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		if err := authorize(c.Request.Context(), eventID, id); err != nil {
			status := http.StatusForbidden
			message := "access denied to this event"
			var se interface{ HTTPStatus() int }
			if errors.As(err, &se) {
				status = se.HTTPStatus()
				message = err.Error()
			}
			c.JSON(status, gin.H{"error": message})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			ID:      uuid.New().String(),
			EventID: eventID,
			UserID:  id.UserID,
			Role:    string(id.Role),
			hub:     hub,
			conn:    conn,
			send:    make(chan WSMessage, 256),
			logger:  logger,
		}
		hub.Register(client)
		go client.writePump()
		client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
		return nil
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			break
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))

		switch msg.Event {
		case "join":
			c.hub.Broadcast(c.EventID, "watcher_count", map[string]int{
				"count": c.hub.WatcherCount(c.EventID),
			})
		default:
			// feed is server-push; other client messages are ignored
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(PingInterval * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
