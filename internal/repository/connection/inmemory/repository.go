package inmemory

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/syncsphere/server/internal/repository/connection"
)

// outbound queue size per connection; a consumer that falls this far behind
// gets dropped instead of blocking the senders
const sendBufferSize = 256

type client struct {
	conn   *websocket.Conn
	out    chan any
	done   chan struct{}
	roomId string
	once   sync.Once
}

// writePump is the single writer for its connection, so every target
// receives events in exactly the order they were enqueued.
func (c *client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.out:
			if err := c.conn.WriteJSON(payload); err != nil {
				return
			}
		}
	}
}

// close stops the pump and tears down the socket. The out channel stays
// open: a concurrent Send may already be past its repo lookup, and an
// enqueue nobody drains is harmless where a send on a closed channel is a
// panic.
func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

type repo struct {
	connList map[*websocket.Conn]string
	idList   map[string]*client
	mu       sync.RWMutex
	logger   *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		connList: make(map[*websocket.Conn]string),
		idList:   make(map[string]*client),
		logger:   logger,
	}
}

func (r *repo) Add(conn *websocket.Conn, connectionId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connList[conn] != "" || r.idList[connectionId] != nil {
		return connection.ErrAlreadyExists
	}

	c := &client{
		conn: conn,
		out:  make(chan any, sendBufferSize),
		done: make(chan struct{}),
	}
	r.connList[conn] = connectionId
	r.idList[connectionId] = c

	go c.writePump()

	return nil
}

func (r *repo) RemoveByConn(conn *websocket.Conn) (string, error) {
	r.mu.Lock()
	connectionId, ok := r.connList[conn]
	if !ok {
		r.mu.Unlock()
		return "", connection.ErrNotFound
	}

	c := r.idList[connectionId]
	delete(r.connList, conn)
	delete(r.idList, connectionId)
	r.mu.Unlock()

	c.close()

	return connectionId, nil
}

func (r *repo) RemoveByConnectionId(connectionId string) error {
	r.mu.Lock()
	c, ok := r.idList[connectionId]
	if !ok {
		r.mu.Unlock()
		return connection.ErrNotFound
	}

	delete(r.connList, c.conn)
	delete(r.idList, connectionId)
	r.mu.Unlock()

	c.close()

	return nil
}

func (r *repo) GetConnectionId(conn *websocket.Conn) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connectionId, ok := r.connList[conn]
	if !ok {
		return "", connection.ErrNotFound
	}

	return connectionId, nil
}

func (r *repo) SetRoom(connectionId, roomId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.idList[connectionId]
	if !ok {
		return connection.ErrNotFound
	}

	c.roomId = roomId
	return nil
}

func (r *repo) GetRoom(connectionId string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.idList[connectionId]
	if !ok {
		return "", connection.ErrNotFound
	}

	return c.roomId, nil
}

// Send enqueues payload for connectionId. Enqueueing never blocks; a full
// queue means the consumer is dead or hopelessly slow, so the connection is
// dropped and its read loop performs the membership cleanup.
func (r *repo) Send(connectionId string, payload any) error {
	r.mu.RLock()
	c, ok := r.idList[connectionId]
	r.mu.RUnlock()
	if !ok {
		return connection.ErrNotFound
	}

	select {
	case <-c.done:
		return connection.ErrNotFound
	default:
	}

	select {
	case c.out <- payload:
		return nil
	default:
		r.logger.Warn("send buffer full, dropping connection", "connection_id", connectionId)
		r.RemoveByConnectionId(connectionId)
		return connection.ErrNotFound
	}
}
