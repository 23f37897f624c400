package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"github.com/ashureev/rps-labs/internal/identity"
)

// WebSocketHandler streams session changes of the requesting page.
type WebSocketHandler struct {
	reg           *Registry
	hub           *Hub
	allowedOrigin string
	isDev         bool
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(reg *Registry, hub *Hub, allowedOrigin string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		reg:           reg,
		hub:           hub,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

type wsMessage struct {
	Type string `json:"type"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := identity.KeyFromContext(r.Context())

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "session", key)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "session", key)
		}
	}()

	h.hub.Register(key, ws)
	defer h.hub.Unregister(key, ws)

	shell := h.reg.Get(key)
	snap := shell.Snapshot()
	if err := writeJSON(r.Context(), ws, Message{Type: "session", Session: &snap}); err != nil {
		slog.Debug("Failed to send initial snapshot", "error", err, "session", key)
		return
	}

	h.readLoop(r.Context(), ws, key)
}

func (h *WebSocketHandler) readLoop(ctx context.Context, ws *websocket.Conn, key string) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "session", key)
			} else {
				slog.Debug("WebSocket read error", "error", err, "session", key)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == "ping" {
			h.reg.Touch(key)
			if err := writeJSON(ctx, ws, Message{Type: "pong"}); err != nil {
				slog.Debug("Failed to send pong", "error", err)
			}
		}
	}
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "" || h.allowedOrigin == "*" || origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func writeJSON(ctx context.Context, ws *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return ws.Write(ctx, websocket.MessageText, data)
}
