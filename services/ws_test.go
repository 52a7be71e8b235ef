package services

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

func dialHub(t *testing.T, hub *Hub, initial *Snapshot) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Join(conn, initial)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readState(t *testing.T, conn *websocket.Conn) stateMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg stateMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubSendsInitialAndBroadcasts(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub, &Snapshot{GameID: "g-1", Status: "waiting_for_players"})

	first := readState(t, conn)
	assert.Equal(t, "state", first.Type)
	assert.Equal(t, "g-1", first.State.GameID)
	assert.Equal(t, 1, hub.Count())

	hub.Broadcast(Snapshot{GameID: "g-1", Status: "in_progress", DrawnNumbers: []int{7}})
	next := readState(t, conn)
	assert.Equal(t, []int{7}, next.State.DrawnNumbers)
}

func TestHubForgetsClosedWatchers(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub, &Snapshot{GameID: "g-1"})
	readState(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}
