package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/rps-labs/internal/game"
	"github.com/ashureev/rps-labs/internal/identity"
)

func newSocketServer(t *testing.T) (*httptest.Server, *Registry, *Hub) {
	t.Helper()
	hub := NewHub()
	reg := NewRegistry(ShellFactory(game.Options{}, hub))
	handler := identity.Middleware(true)(NewWebSocketHandler(reg, hub, "", true))
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, reg, hub
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/session?session_id=" + sessionID
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestWebSocket_SendsInitialSnapshotAndPong(t *testing.T) {
	srv, reg, _ := newSocketServer(t)
	conn := dial(t, srv, "page-1")

	msg := readMessage(t, conn)
	require.Equal(t, "session", msg.Type)
	require.NotNil(t, msg.Session)
	assert.False(t, msg.Session.Connected)
	assert.Equal(t, 1, reg.Len())

	require.NoError(t, conn.Write(context.Background(), websocket.MessageText, []byte(`{"type":"ping"}`)))
	assert.Equal(t, "pong", readMessage(t, conn).Type)
}

func TestWebSocket_NoticeFromShellReachesPage(t *testing.T) {
	srv, reg, hub := newSocketServer(t)
	conn := dial(t, srv, "page-2")
	readMessage(t, conn)

	// The dial carried no cookie, so recover the key the server assigned.
	var key string
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		for k := range hub.active {
			key = k
		}
		return key != ""
	}, time.Second, 10*time.Millisecond)

	shell, ok := reg.Peek(key)
	require.True(t, ok)
	assert.ErrorIs(t, shell.Connect(context.Background()), game.ErrProviderUnavailable)

	msg := readMessage(t, conn)
	assert.Equal(t, "notice", msg.Type)
	assert.Equal(t, game.NoticeNoWallet, msg.Notice)
}

func TestHub_CloseSession(t *testing.T) {
	srv, _, hub := newSocketServer(t)
	conn := dial(t, srv, "page-3")
	readMessage(t, conn)

	var key string
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		for k := range hub.active {
			key = k
		}
		return key != ""
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.Count(key))

	hub.CloseSession(key)
	assert.Zero(t, hub.Count(key))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, err := conn.Read(ctx)
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
}

func TestCheckOrigin(t *testing.T) {
	h := NewWebSocketHandler(nil, nil, "https://rps.example", false)

	req := httptest.NewRequest(http.MethodGet, "/ws/session", nil)
	assert.True(t, h.checkOrigin(req))

	req.Header.Set("Origin", "https://rps.example")
	assert.True(t, h.checkOrigin(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, h.checkOrigin(req))
}
