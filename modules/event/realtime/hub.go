// Package realtime pushes event updates to connected browsers over websockets.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"meetgrid/core/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

const (
	MessageSummary   = "summary"
	MessageScheduled = "scheduled"
	MessageCancelled = "cancelled"
)

// Message is the envelope written to subscribers.
type Message struct {
	Type    string `json:"type"`
	EventID string `json:"event_id"`
	Data    any    `json:"data,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans messages out to the subscribers of each event.
type Hub struct {
	mu       sync.Mutex
	rooms    map[string]map[*client]struct{}
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Serve upgrades the request and keeps the subscription open until the peer
// disconnects. Incoming frames are read only to observe the close.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, eventID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("Hub:Serve:Upgrade", "event_id", eventID, "error", err)
		return err
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(eventID, c)
	logger.Debug("Hub:Serve:Subscribed", "event_id", eventID, "subscribers", h.Subscribers(eventID))

	go c.writePump()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(eventID, c)
	return nil
}

// Publish queues msgType/data for every subscriber of eventID. Subscribers
// that cannot keep up are dropped.
func (h *Hub) Publish(eventID string, msgType string, data any) {
	payload, err := json.Marshal(Message{Type: msgType, EventID: eventID, Data: data})
	if err != nil {
		logger.Error("Hub:Publish:Marshal", "event_id", eventID, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[eventID] {
		select {
		case c.send <- payload:
		default:
			logger.Warn("Hub:Publish:SlowSubscriber", "event_id", eventID)
			h.removeLocked(eventID, c)
		}
	}
}

func (h *Hub) Subscribers(eventID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[eventID])
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for eventID, room := range h.rooms {
		for c := range room {
			h.removeLocked(eventID, c)
		}
	}
}

func (h *Hub) register(eventID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[eventID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[eventID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) unregister(eventID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(eventID, c)
}

func (h *Hub) removeLocked(eventID string, c *client) {
	room, ok := h.rooms[eventID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, eventID)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
