// Package wsrouter routes typed {type, payload} websocket messages to
// handlers, with middleware around every dispatch.
package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
)

var ErrUnknownMessageType = errors.New("unknown message type")

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc[T any] func(ctx context.Context, conn *websocket.Conn, input T) error

type Middleware func(next HandlerFunc[json.RawMessage]) HandlerFunc[json.RawMessage]

// ErrorFunc receives every handler error; the connection stays up unless the
// read loop itself fails.
type ErrorFunc func(ctx context.Context, conn *websocket.Conn, err error)

type WSRouter struct {
	routes      map[string]HandlerFunc[json.RawMessage]
	middlewares []Middleware
	onError     ErrorFunc
}

func New() *WSRouter {
	return &WSRouter{
		routes:  make(map[string]HandlerFunc[json.RawMessage]),
		onError: func(context.Context, *websocket.Conn, error) {},
	}
}

func (r *WSRouter) Use(mw Middleware) {
	r.middlewares = append(r.middlewares, mw)
}

func (r *WSRouter) OnError(f ErrorFunc) {
	r.onError = f
}

// Handle registers a typed handler; the raw payload is unmarshalled into T
// before the handler runs. An empty payload yields T's zero value.
func Handle[T any](r *WSRouter, messageType string, handler HandlerFunc[T]) {
	r.routes[messageType] = func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		var input T
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &input); err != nil {
				return fmt.Errorf("failed to unmarshal %s payload: %w", messageType, err)
			}
		}

		return handler(ctx, conn, input)
	}
}

// ServeConn reads messages until the connection fails and dispatches each
// through the middleware chain. Messages from one connection are handled
// strictly in arrival order.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		handler, exists := r.routes[msg.Type]
		if !exists {
			r.onError(ctx, conn, fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type))
			continue
		}

		for i := len(r.middlewares) - 1; i >= 0; i-- {
			handler = r.middlewares[i](handler)
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Type)
		if err := handler(msgCtx, conn, msg.Payload); err != nil {
			r.onError(msgCtx, conn, err)
		}
	}
}
