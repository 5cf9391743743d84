package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat.
	PingInterval = 30
	PongWait     = 60
)

// EventCheckin is the message name pushed to dashboard watchers when a ticket
// is checked in.
const EventCheckin = "checkin"

// Publisher publishes feed messages to Redis for cross-instance broadcast.
type Publisher interface {
	PublishFeedEvent(eventID uuid.UUID, event string, payload []byte) error
}

// Subscriber subscribes to an event's feed channel and invokes handler for
// incoming messages.
type Subscriber interface {
	SubscribeFeed(eventID uuid.UUID, handler func(event string, payload []byte)) (cancel func(), err error)
}

// Hub maintains event_id -> set of connections for the live check-in feed.
// Uses Redis pub/sub for horizontal scaling: local broadcast + publish to Redis.
type Hub struct {
	// eventID -> map[clientID]*Client
	rooms  map[uuid.UUID]map[string]*Client
	subs   map[uuid.UUID]func() // cancel Redis subscription per event
	mu     sync.RWMutex
	logger *zap.Logger
	pub    Publisher
	sub    Subscriber
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger, pub Publisher, sub Subscriber) *Hub {
	return &Hub{
		rooms:  make(map[uuid.UUID]map[string]*Client),
		subs:   make(map[uuid.UUID]func()),
		logger: logger,
		pub:    pub,
		sub:    sub,
	}
}

// Register adds a client to an event room. Starts the Redis subscription for
// the event when the first client joins.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.rooms[c.EventID] == nil {
		h.rooms[c.EventID] = make(map[string]*Client)
		if h.sub != nil {
			cancel, err := h.sub.SubscribeFeed(c.EventID, func(event string, payload []byte) {
				h.Broadcast(c.EventID, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[c.EventID] = cancel
			}
		}
	}
	h.rooms[c.EventID][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("client joined event feed",
		zap.String("client_id", c.ID), zap.String("event_id", c.EventID.String()))
}

// Unregister removes a client from an event room. Cancels the Redis
// subscription when the last client leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.rooms[c.EventID]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.rooms, c.EventID)
			if cancel, ok := h.subs[c.EventID]; ok {
				cancel()
				delete(h.subs, c.EventID)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("client left event feed",
		zap.String("client_id", c.ID), zap.String("event_id", c.EventID.String()))
}

// Broadcast sends a message to all clients watching an event (local only).
func (h *Hub) Broadcast(eventID uuid.UUID, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	// Copy the room under the read lock; Register mutates the inner map, so
	// iterating it unlocked races with concurrent joins.
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[eventID]))
	for _, c := range h.rooms[eventID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// BroadcastAndPublish sends to local clients and publishes to Redis for other
// instances.
func (h *Hub) BroadcastAndPublish(eventID uuid.UUID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.Broadcast(eventID, event, payload)
	if h.pub != nil {
		_ = h.pub.PublishFeedEvent(eventID, event, data)
	}
}

// NotifyCheckin pushes a check-in notification to everyone watching the event's
// live dashboard.
func (h *Hub) NotifyCheckin(eventID uuid.UUID, payload any) {
	h.BroadcastAndPublish(eventID, EventCheckin, payload)
}

// WatcherCount returns the number of connected clients for an event.
func (h *Hub) WatcherCount(eventID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[eventID])
}
