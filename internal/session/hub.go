// Package session hosts one game shell per open page and pushes its changes
// to the page over websocket.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/ashureev/rps-labs/internal/game"
)

const writeTimeout = 5 * time.Second

// Message is a server push to the page.
type Message struct {
	Type    string         `json:"type"`
	Session *game.Snapshot `json:"session,omitempty"`
	Notice  string         `json:"notice,omitempty"`
}

// Hub tracks websocket connections per page key.
type Hub struct {
	mu     sync.RWMutex
	active map[string]map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		active: make(map[string]map[*websocket.Conn]struct{}),
	}
}

// Register adds a connection for key.
func (h *Hub) Register(key string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.active[key]; !exists {
		h.active[key] = make(map[*websocket.Conn]struct{})
	}
	h.active[key][conn] = struct{}{}
	slog.Debug("Session socket registered", "session", key)
}

// Unregister removes a connection for key.
func (h *Hub) Unregister(key string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.active[key]
	if !ok {
		return
	}
	if _, exists := conns[conn]; exists {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.active, key)
		}
		slog.Debug("Session socket unregistered", "session", key)
	}
}

// Count returns the number of connections for key.
func (h *Hub) Count(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.active[key])
}

// CloseSession closes every connection of key.
func (h *Hub) CloseSession(key string) {
	h.mu.Lock()
	conns := h.active[key]
	delete(h.active, key)
	h.mu.Unlock()

	for conn := range conns {
		_ = conn.Close(websocket.StatusNormalClosure, "session closed")
	}
	if len(conns) > 0 {
		slog.Info("Session sockets closed", "session", key, "count", len(conns))
	}
}

// PublishSession pushes a session snapshot to key's connections.
func (h *Hub) PublishSession(key string, snap game.Snapshot) {
	h.publish(key, Message{Type: "session", Session: &snap})
}

// PublishNotice pushes a user notice to key's connections.
func (h *Hub) PublishNotice(key, notice string) {
	h.publish(key, Message{Type: "notice", Notice: notice})
}

func (h *Hub) publish(key string, msg Message) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.active[key]))
	for conn := range h.active[key] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()
	if len(conns) == 0 {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to encode session message", "error", err, "type", msg.Type)
		return
	}
	for _, conn := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			slog.Debug("Session socket write failed", "session", key, "error", err)
		}
		cancel()
	}
}
