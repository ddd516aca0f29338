package live

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, onCount func(int)) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub()
	hub.OnCountChange = onCount
	go hub.Run()
	t.Cleanup(hub.Stop)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.URL.Query().Get("game"), 10, 64)
		if err != nil {
			http.Error(w, "bad game", http.StatusBadRequest)
			return
		}
		hub.ServeWS(w, r, id)
	}))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, gameID int) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?game=" + strconv.Itoa(gameID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_BroadcastReachesOnlyTheGameGroup(t *testing.T) {
	hub, srv := startHub(t, nil)

	watcher := dial(t, srv, 1)
	other := dial(t, srv, 2)
	require.Eventually(t, func() bool {
		return hub.ClientCount(1) == 1 && hub.ClientCount(2) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Broadcast(1, MessageTurnRecorded, map[string]int{"total": 18}))

	watcher.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := watcher.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    MessageType    `json:"type"`
		GameID  int64          `json:"game_id"`
		Payload map[string]int `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageTurnRecorded, msg.Type)
	assert.Equal(t, int64(1), msg.GameID)
	assert.Equal(t, 18, msg.Payload["total"])

	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err, "clients of other games must not receive the update")
}

func TestHub_UnregistersClosedClients(t *testing.T) {
	var last atomic.Int64
	hub, srv := startHub(t, func(total int) { last.Store(int64(total)) })

	conn := dial(t, srv, 7)
	require.Eventually(t, func() bool { return hub.ClientCount(7) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.TotalClients())

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount(7) == 0 }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return last.Load() == 0 }, time.Second, 10*time.Millisecond)
}

func TestMock_RecordsBroadcasts(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.Broadcast(3, MessageGameEnded, nil))
	calls := m.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, int64(3), calls[0].GameID)
	assert.Equal(t, MessageGameEnded, calls[0].Type)
}
