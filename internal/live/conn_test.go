package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// newWSPair dials a throwaway websocket server and returns the server-side
// Conn together with the raw client socket.
func newWSPair(t *testing.T) (*Conn, *websocket.Conn) {
	t.Helper()

	accepted := make(chan *Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		accepted <- NewConn(ws)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	select {
	case conn := <-accepted:
		t.Cleanup(conn.Close)
		return conn, client
	case <-time.After(5 * time.Second):
		t.Fatal("server never accepted the websocket")
		return nil, nil
	}
}

func TestConn_WritePumpDelivers(t *testing.T) {
	conn, client := newWSPair(t)
	go conn.WritePump(time.Minute, time.Second)

	require.NoError(t, conn.TrySend([]byte("one")))
	require.NoError(t, conn.TrySend([]byte("two")))

	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	_, data, err = client.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestConn_TrySendBackpressure(t *testing.T) {
	conn, _ := newWSPair(t)
	// No write pump running, so the queue only drains on close.

	for i := 0; i < sendBuffer; i++ {
		require.NoError(t, conn.TrySend([]byte("frame")))
	}
	assert.ErrorIs(t, conn.TrySend([]byte("overflow")), ErrBackpressure)
}

func TestConn_CloseIdempotent(t *testing.T) {
	conn, _ := newWSPair(t)

	conn.Close()
	conn.Close()

	assert.Error(t, conn.TrySend([]byte("after close")))
}
