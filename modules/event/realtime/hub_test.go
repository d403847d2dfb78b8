package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, hub *Hub, eventID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, eventID)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Subscribers(eventID) > 0 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestHubPublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	conn := dial(t, hub, "ev1")

	hub.Publish("ev1", MessageSummary, map[string]int{"total_participants": 2})
	hub.Publish("other", MessageSummary, nil)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string         `json:"type"`
		EventID string         `json:"event_id"`
		Data    map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, MessageSummary, msg.Type)
	assert.Equal(t, "ev1", msg.EventID)
	assert.Equal(t, 2, msg.Data["total_participants"])
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub := NewHub()
	conn := dial(t, hub, "ev1")
	require.Equal(t, 1, hub.Subscribers("ev1"))

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Subscribers("ev1") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	assert.NotPanics(t, func() { hub.Publish("nobody", MessageSummary, nil) })
	hub.Close()
}
