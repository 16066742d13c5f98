package inmemory

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncsphere/server/internal/repository/connection"
)

// wsTestServer hands out real websocket connections: server is the end the
// repo manages, client is the peer the payloads arrive at.
type wsTestServer struct {
	server   *httptest.Server
	accepted chan *websocket.Conn
}

type connPair struct {
	server *websocket.Conn
	client *websocket.Conn
}

func newWSTestServer(t *testing.T) *wsTestServer {
	t.Helper()

	s := &wsTestServer{accepted: make(chan *websocket.Conn, 1)}

	upgrader := websocket.Upgrader{}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.accepted <- conn
	}))
	t.Cleanup(s.server.Close)

	return s
}

func (s *wsTestServer) dial(t *testing.T) connPair {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(s.server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return connPair{server: <-s.accepted, client: client}
}

func (p connPair) readPayload(t *testing.T) map[string]any {
	t.Helper()

	p.client.SetReadDeadline(time.Now().Add(5 * time.Second))

	var payload map[string]any
	require.NoError(t, p.client.ReadJSON(&payload))

	return payload
}

func TestAddAndLookup(t *testing.T) {
	r := NewRepo(slog.Default())
	srv := newWSTestServer(t)
	pair := srv.dial(t)

	require.NoError(t, r.Add(pair.server, "conn-a"))

	id, err := r.GetConnectionId(pair.server)
	require.NoError(t, err)
	assert.Equal(t, "conn-a", id)

	assert.ErrorIs(t, r.Add(pair.server, "conn-b"), connection.ErrAlreadyExists)

	other := srv.dial(t)
	assert.ErrorIs(t, r.Add(other.server, "conn-a"), connection.ErrAlreadyExists)
}

func TestRoomTracking(t *testing.T) {
	r := NewRepo(slog.Default())
	pair := newWSTestServer(t).dial(t)

	require.NoError(t, r.Add(pair.server, "conn-a"))

	roomId, err := r.GetRoom("conn-a")
	require.NoError(t, err)
	assert.Empty(t, roomId, "fresh connection must not be in a room")

	require.NoError(t, r.SetRoom("conn-a", "movie1"))

	roomId, err = r.GetRoom("conn-a")
	require.NoError(t, err)
	assert.Equal(t, "movie1", roomId)

	assert.ErrorIs(t, r.SetRoom("conn-b", "movie1"), connection.ErrNotFound)
}

func TestRemoveByConn(t *testing.T) {
	r := NewRepo(slog.Default())
	pair := newWSTestServer(t).dial(t)

	require.NoError(t, r.Add(pair.server, "conn-a"))

	id, err := r.RemoveByConn(pair.server)
	require.NoError(t, err)
	assert.Equal(t, "conn-a", id)

	_, err = r.GetConnectionId(pair.server)
	assert.ErrorIs(t, err, connection.ErrNotFound)
	_, err = r.GetRoom("conn-a")
	assert.ErrorIs(t, err, connection.ErrNotFound)

	_, err = r.RemoveByConn(pair.server)
	assert.ErrorIs(t, err, connection.ErrNotFound)
}

func TestRemoveByConnectionId(t *testing.T) {
	r := NewRepo(slog.Default())
	pair := newWSTestServer(t).dial(t)

	require.NoError(t, r.Add(pair.server, "conn-a"))
	require.NoError(t, r.RemoveByConnectionId("conn-a"))

	assert.ErrorIs(t, r.RemoveByConnectionId("conn-a"), connection.ErrNotFound)
	_, err := r.GetConnectionId(pair.server)
	assert.ErrorIs(t, err, connection.ErrNotFound)
}

func TestSendDeliversInOrder(t *testing.T) {
	r := NewRepo(slog.Default())
	pair := newWSTestServer(t).dial(t)

	require.NoError(t, r.Add(pair.server, "conn-a"))

	for _, n := range []string{"one", "two", "three"} {
		require.NoError(t, r.Send("conn-a", map[string]string{"n": n}))
	}

	for _, n := range []string{"one", "two", "three"} {
		payload := pair.readPayload(t)
		assert.Equal(t, n, payload["n"])
	}
}

func TestSendToUnknownConnection(t *testing.T) {
	r := NewRepo(slog.Default())

	assert.ErrorIs(t, r.Send("conn-a", map[string]string{}), connection.ErrNotFound)
}

// Senders racing a removal may lose their payload but must never panic or
// take other connections down with them.
func TestConcurrentSendAndRemove(t *testing.T) {
	r := NewRepo(slog.Default())
	srv := newWSTestServer(t)

	for i := 0; i < 100; i++ {
		pair := srv.dial(t)
		connectionId := fmt.Sprintf("conn-%d", i)
		require.NoError(t, r.Add(pair.server, connectionId))

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 25; j++ {
					r.Send(connectionId, map[string]int{"n": j})
				}
			}()
		}

		r.RemoveByConnectionId(connectionId)
		wg.Wait()

		assert.ErrorIs(t, r.Send(connectionId, map[string]int{}), connection.ErrNotFound)
	}
}
