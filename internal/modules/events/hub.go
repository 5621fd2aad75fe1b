package events

import (
	"sync"

	"github.com/gorilla/websocket"
)

// client wraps a connection with a write lock. gorilla/websocket
// supports at most one concurrent writer per connection, and SendToUser
// is called from arbitrary request goroutines.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) writeJSON(message interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(message)
}

// Hub tracks one websocket connection per user and pushes file events
// to the owning user's client. A second connection for the same user
// replaces the first.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]*client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]*client),
	}
}

func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, exists := h.clients[userID]; exists {
		_ = old.conn.Close()
	}

	h.clients[userID] = &client{conn: conn}
}

// Release drops the user's registration only while conn is still the
// registered connection. A subscriber goroutine whose connection was
// replaced must not tear down its successor.
func (h *Hub) Release(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, exists := h.clients[userID]
	if !exists || current.conn != conn {
		return
	}

	_ = current.conn.Close()
	delete(h.clients, userID)
}

// SendToUser delivers an event to the user's connection if one exists.
// A write failure drops that connection.
func (h *Hub) SendToUser(userID int64, message interface{}) bool {
	h.mu.RLock()
	current, exists := h.clients[userID]
	h.mu.RUnlock()

	if !exists {
		return false
	}

	if err := current.writeJSON(message); err != nil {
		h.Release(userID, current.conn)
		return false
	}

	return true
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, exists := h.clients[userID]
	return exists
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, current := range h.clients {
		_ = current.conn.Close()
		delete(h.clients, userID)
	}
}
