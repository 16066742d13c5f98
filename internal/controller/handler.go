package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/syncsphere/server/internal/service/room"
	"github.com/syncsphere/server/pkg/ctxlogger"
)

func (c *controller) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	connectionId := uuid.NewString()
	if err := c.connRepo.Add(conn, connectionId); err != nil {
		c.logger.WarnContext(r.Context(), "failed to register connection", "error", err)
		conn.Close()
		return
	}

	ctx := context.WithValue(r.Context(), connectionIdCtxKey, connectionId)
	ctx = ctxlogger.AppendCtx(ctx, slog.String("connection_id", connectionId))

	c.logger.InfoContext(ctx, "connection opened")

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "connection read loop ended", "error", err)
	}

	c.handleClose(ctx, connectionId)
}

// handleClose is the connection-closed notification: the departing
// connection leaves its room and the remaining members learn about it.
func (c *controller) handleClose(ctx context.Context, connectionId string) {
	roomId, err := c.connRepo.GetRoom(connectionId)

	if removeErr := c.connRepo.RemoveByConnectionId(connectionId); removeErr != nil {
		c.logger.DebugContext(ctx, "connection already removed", "error", removeErr)
	}

	if err != nil || roomId == "" {
		c.logger.InfoContext(ctx, "connection closed")
		return
	}

	c.leaveRoom(ctx, connectionId, roomId)
	c.logger.InfoContext(ctx, "connection closed", "room_id", roomId)
}

// leaveRoom runs the departure flow for one room: registry leave plus the
// room-closed or membership-update fan-out, under the room's lock so the
// notification cannot interleave with a concurrent join's.
func (c *controller) leaveRoom(ctx context.Context, connectionId, roomId string) {
	mu := c.roomLocks.lock(roomId)
	defer mu.Unlock()

	resp, err := c.roomService.Disconnect(ctx, &room.DisconnectParams{
		ConnectionId: connectionId,
		RoomId:       roomId,
	})
	if err != nil {
		// the room may have evaporated already, nothing to announce
		c.logger.DebugContext(ctx, "disconnect was a no-op", "error", err)
		return
	}

	if resp.Destroyed {
		c.broadcast(ctx, resp.Targets, &Output{
			Type:    "ROOM_CLOSED",
			Payload: map[string]any{},
		})
		return
	}

	c.broadcast(ctx, resp.Targets, &Output{
		Type:    "USER_UPDATE",
		Payload: map[string]any{"members": resp.Members},
	})
}
