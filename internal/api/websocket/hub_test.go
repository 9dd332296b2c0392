package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/chaos-zero-companion/internal/events"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(server.Close)

	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) events.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg events.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	assert.Eventually(t, func() bool { return hub.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub.clients == nil {
		t.Error("Hub clients map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels not initialised")
	}
	if count := hub.ClientCount(); count != 0 {
		t.Errorf("Expected 0 clients, got %d", count)
	}
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub, _ := startHub(t)
	assert.True(t, hub.BroadcastEvent(events.Event{Type: events.TypeDeckCleared, SessionID: "s1"}))
}

func TestHub_SessionFiltering(t *testing.T) {
	hub, url := startHub(t)

	s1 := dial(t, url+"?session=s1")
	s2 := dial(t, url+"?session=s2")
	all := dial(t, url)
	waitForClients(t, hub, 3)

	ctx := context.Background()
	hub.BroadcastEvent(events.NewTypedEvent(ctx, events.TypeDeckUpdated, "s1", events.DeckUpdatedEvent{CardID: 7}))
	hub.BroadcastEvent(events.NewTypedEvent(ctx, events.TypeSessionEnded, "s2", events.SessionEndedEvent{Reason: "ended"}))

	msg := readMessage(t, s1)
	assert.Equal(t, events.TypeDeckUpdated, msg.Type)
	assert.Equal(t, "s1", msg.SessionID)

	msg = readMessage(t, s2)
	assert.Equal(t, events.TypeSessionEnded, msg.Type, "s2 never sees s1 traffic")

	first := readMessage(t, all)
	second := readMessage(t, all)
	assert.Equal(t, []string{"s1", "s2"}, []string{first.SessionID, second.SessionID})
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub, url := startHub(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	waitForClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, 0)
}

func TestHub_Stop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	hub.Stop()
	hub.Stop()

	assert.Eventually(t, hub.IsStopped, time.Second, 5*time.Millisecond)
	assert.False(t, hub.BroadcastEvent(events.Event{Type: events.TypeDeckCleared}))

	rec := httptest.NewRecorder()
	hub.ServeWs(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
