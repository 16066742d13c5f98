package controller

import (
	"context"
	"errors"

	"github.com/gorilla/websocket"

	"github.com/syncsphere/server/pkg/wsrouter"
)

func (c *controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(c.loggerWSMw())
	mux.OnError(c.handleWSError)

	wsrouter.Handle(mux, "ALIVE", c.handleAlive)

	// room
	wsrouter.Handle(mux, "CREATE_ROOM", c.handleCreateRoom)
	wsrouter.Handle(mux, "JOIN_ROOM", c.handleJoinRoom)

	// playback
	wsrouter.Handle(mux, "HOST_ACTION", c.handleHostAction)
	wsrouter.Handle(mux, "CLOCK_SAMPLE", c.handleClockSample)
	wsrouter.Handle(mux, "SET_VIDEO", c.handleSetVideo)

	// chat
	wsrouter.Handle(mux, "CHAT_MESSAGE", c.handleChatMessage)

	return mux
}

func (c *controller) handleWSError(ctx context.Context, conn *websocket.Conn, err error) {
	if errors.Is(err, wsrouter.ErrUnknownMessageType) {
		connectionId, lookupErr := c.connRepo.GetConnectionId(conn)
		if lookupErr == nil {
			c.writeError(ctx, connectionId, "unknown message type")
		}
		return
	}

	c.logger.WarnContext(ctx, "websocket handler failed", "error", err)
}
