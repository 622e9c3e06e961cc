package ws

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorhub/engage/internal/auth"
	"github.com/creatorhub/engage/internal/model"
)

const testSecret = "ws-test-secret"

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	logger := zerolog.Nop()
	hub := NewHub(logger)
	go hub.Run()
	t.Cleanup(hub.Stop)

	srv := httptest.NewServer(NewHandler(hub, auth.NewJWTAuthorizer(testSecret), logger))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	token, err := auth.IssueToken(testSecret, userID, "user", time.Hour)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(payload, &env))
	return env
}

func TestHub_PushReachesAllUserConnections(t *testing.T) {
	hub, srv := newTestServer(t)

	conn1 := dial(t, srv, "user-1")
	conn2 := dial(t, srv, "user-1")

	require.Eventually(t, func() bool {
		return hub.ConnectionCount("user-1") == 2
	}, 2*time.Second, 10*time.Millisecond)

	hub.Push("user-1", &model.Notification{
		NotificationID: "n-1",
		UserID:         "user-1",
		Type:           "save",
		Message:        "You saved content: Go at scale",
	})

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		env := readEnvelope(t, conn)
		assert.Equal(t, "notification", env.Type)

		var n model.Notification
		require.NoError(t, json.Unmarshal(env.Data, &n))
		assert.Equal(t, "n-1", n.NotificationID)
	}
}

func TestHub_PushIsScopedToUser(t *testing.T) {
	hub, srv := newTestServer(t)

	_ = dial(t, srv, "user-1")
	other := dial(t, srv, "user-2")

	require.Eventually(t, func() bool {
		return hub.ConnectionCount("user-1") == 1 && hub.ConnectionCount("user-2") == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.Push("user-1", &model.Notification{NotificationID: "n-1", UserID: "user-1", Type: "credit"})

	require.NoError(t, other.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err, "user-2 must not receive user-1's notification")
}

func TestHub_PushWithNoConnectionsIsNoop(t *testing.T) {
	hub, _ := newTestServer(t)
	// Must not panic or block.
	hub.Push("nobody", &model.Notification{NotificationID: "n-1", UserID: "nobody", Type: "credit"})
}

func TestHandler_RejectsBadToken(t *testing.T) {
	_, srv := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_SlowClientEvictionClosesConnAfterStop(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	// Run is never started, so nothing drains the unregister queue.
	hub.Stop()

	serverConns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if conn, err := upgrader.Upgrade(w, r, nil); err == nil {
			serverConns <- conn
		}
	}))
	t.Cleanup(srv.Close)

	dialed, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dialed.Close() })
	conn := <-serverConns

	// Unbuffered out channel guarantees the eviction path on delivery.
	c := &Client{id: "c1", userID: "user-1", hub: hub, conn: conn, out: make(chan []byte)}
	hub.add(c)

	// Saturate the unregister queue so the eviction cannot hand the
	// client off and has to fall back to the stopped-hub path.
	for i := 0; i < cap(hub.unregister); i++ {
		hub.unregister <- &Client{}
	}

	hub.deliver(outbound{userID: "user-1", payload: []byte("x")})

	// The connection must still get closed; a read-deadline timeout
	// would mean the eviction goroutine parked on the full queue.
	require.NoError(t, dialed.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = dialed.ReadMessage()
	require.Error(t, err)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		t.Fatalf("connection was never closed: %v", err)
	}
}

func TestHub_DisconnectPrunesConnection(t *testing.T) {
	hub, srv := newTestServer(t)

	conn := dial(t, srv, "user-1")
	require.Eventually(t, func() bool {
		return hub.ConnectionCount("user-1") == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return hub.ConnectionCount("user-1") == 0
	}, 2*time.Second, 10*time.Millisecond)
}
