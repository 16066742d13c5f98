package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/syncsphere/server/internal/service/room"
)

type EmptyInput struct{}

func (c *controller) handleAlive(_ context.Context, _ *websocket.Conn, _ EmptyInput) error {
	return nil
}

type CreateRoomInput struct {
	RoomId   string `json:"room_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c *controller) handleCreateRoom(ctx context.Context, _ *websocket.Conn, input CreateRoomInput) error {
	connectionId := c.getConnectionIdFromCtx(ctx)

	if validationErrors, ok := c.validate.Validate(input); !ok {
		c.writeError(ctx, connectionId, validationErrors[0].Message)
		return nil
	}

	if err := c.roomService.CreateRoom(ctx, &room.CreateRoomParams{
		RoomId:   input.RoomId,
		Password: input.Password,
	}); err != nil {
		if errors.Is(err, room.ErrRoomAlreadyTaken) {
			c.writeError(ctx, connectionId, "room already exists")
			return nil
		}
		return fmt.Errorf("failed to create room: %w", err)
	}

	c.send(ctx, connectionId, &Output{
		Type:    "ROOM_CREATED",
		Payload: map[string]any{"room_id": input.RoomId},
	})

	return nil
}

type JoinRoomInput struct {
	RoomId      string `json:"room_id" validate:"required"`
	DisplayName string `json:"display_name" validate:"required,max=64"`
	Password    string `json:"password"`
}

func (c *controller) handleJoinRoom(ctx context.Context, _ *websocket.Conn, input JoinRoomInput) error {
	connectionId := c.getConnectionIdFromCtx(ctx)

	if validationErrors, ok := c.validate.Validate(input); !ok {
		c.writeError(ctx, connectionId, validationErrors[0].Message)
		return nil
	}

	// one room per connection: switching rooms means leaving the old one,
	// but only once the destination has accepted the password. A rejected
	// switch must leave the current room untouched.
	if current, err := c.connRepo.GetRoom(connectionId); err == nil && current != "" && current != input.RoomId {
		if err := c.roomService.AuthorizeJoin(ctx, &room.AuthorizeJoinParams{
			RoomId:   input.RoomId,
			Password: input.Password,
		}); err != nil {
			if err := c.writeJoinError(ctx, connectionId, err); err != nil {
				return fmt.Errorf("failed to authorize join: %w", err)
			}
			return nil
		}

		c.leaveRoom(ctx, connectionId, current)
		c.connRepo.SetRoom(connectionId, "")
	}

	// the lock spans the registry mutation and the broadcast enqueue so
	// concurrent joins cannot deliver member lists out of order
	mu := c.roomLocks.lock(input.RoomId)
	defer mu.Unlock()

	resp, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		ConnectionId: connectionId,
		RoomId:       input.RoomId,
		DisplayName:  input.DisplayName,
		Password:     input.Password,
	})
	if err != nil {
		if err := c.writeJoinError(ctx, connectionId, err); err != nil {
			return fmt.Errorf("failed to join room: %w", err)
		}
		return nil
	}

	if err := c.connRepo.SetRoom(connectionId, input.RoomId); err != nil {
		return fmt.Errorf("failed to track room: %w", err)
	}

	c.send(ctx, connectionId, &Output{
		Type: "JOINED",
		Payload: map[string]any{
			"is_host":   resp.IsHost,
			"members":   resp.Members,
			"video_ref": resp.VideoRef,
		},
	})

	c.broadcast(ctx, resp.Others, &Output{
		Type:    "USER_UPDATE",
		Payload: map[string]any{"members": resp.Members},
	})

	return nil
}

// writeJoinError maps join errors onto wire errors; an unexpected error is
// reported generically and handed back for logging.
func (c *controller) writeJoinError(ctx context.Context, connectionId string, err error) error {
	switch {
	case errors.Is(err, room.ErrInvalidInput):
		c.writeError(ctx, connectionId, "invalid room id or display name")
	case errors.Is(err, room.ErrWrongPassword):
		c.writeError(ctx, connectionId, "wrong password")
	default:
		c.writeError(ctx, connectionId, "failed to join room")
		return err
	}

	return nil
}

type HostActionInput struct {
	Kind string  `json:"kind"`
	Time float64 `json:"time"`
}

func (c *controller) handleHostAction(ctx context.Context, _ *websocket.Conn, input HostActionInput) error {
	connectionId := c.getConnectionIdFromCtx(ctx)
	roomId, _ := c.connRepo.GetRoom(connectionId)

	resp, err := c.roomService.HostAction(ctx, &room.HostActionParams{
		ConnectionId: connectionId,
		RoomId:       roomId,
		Kind:         room.ActionKind(input.Kind),
		Time:         input.Time,
	})
	if err != nil {
		if errors.Is(err, room.ErrInvalidAction) {
			c.writeError(ctx, connectionId, "invalid playback action")
			return nil
		}
		// non-host senders are dropped without a reply
		c.logger.DebugContext(ctx, "host action dropped", "error", err)
		return nil
	}

	c.broadcast(ctx, resp.Targets, &Output{
		Type:    "VIEWER_ACTION",
		Payload: resp.Action,
	})

	return nil
}

type ClockSampleInput struct {
	Time float64 `json:"time"`
}

func (c *controller) handleClockSample(ctx context.Context, _ *websocket.Conn, input ClockSampleInput) error {
	connectionId := c.getConnectionIdFromCtx(ctx)
	roomId, _ := c.connRepo.GetRoom(connectionId)

	resp, err := c.roomService.ClockSample(ctx, &room.ClockSampleParams{
		ConnectionId: connectionId,
		RoomId:       roomId,
		Time:         input.Time,
	})
	if err != nil {
		if errors.Is(err, room.ErrInvalidAction) {
			c.writeError(ctx, connectionId, "invalid clock sample")
			return nil
		}
		c.logger.DebugContext(ctx, "clock sample dropped", "error", err)
		return nil
	}

	c.broadcast(ctx, resp.Targets, &Output{
		Type:    "TIME_SYNC",
		Payload: map[string]any{"time": resp.Time},
	})

	return nil
}

type ChatMessageInput struct {
	Text string `json:"text"`
}

func (c *controller) handleChatMessage(ctx context.Context, _ *websocket.Conn, input ChatMessageInput) error {
	connectionId := c.getConnectionIdFromCtx(ctx)
	roomId, _ := c.connRepo.GetRoom(connectionId)

	resp, err := c.roomService.ChatMessage(ctx, &room.ChatMessageParams{
		ConnectionId: connectionId,
		RoomId:       roomId,
		Text:         input.Text,
	})
	if err != nil {
		c.logger.DebugContext(ctx, "chat message dropped", "error", err)
		return nil
	}

	c.broadcast(ctx, resp.Targets, &Output{
		Type:    "NEW_MESSAGE",
		Payload: resp.Message,
	})

	return nil
}

type SetVideoInput struct {
	VideoRef string `json:"video_ref"`
}

func (c *controller) handleSetVideo(ctx context.Context, _ *websocket.Conn, input SetVideoInput) error {
	connectionId := c.getConnectionIdFromCtx(ctx)
	roomId, _ := c.connRepo.GetRoom(connectionId)

	resp, err := c.roomService.SetVideo(ctx, &room.SetVideoParams{
		ConnectionId: connectionId,
		RoomId:       roomId,
		VideoRef:     input.VideoRef,
	})
	if err != nil {
		c.logger.DebugContext(ctx, "set video dropped", "error", err)
		return nil
	}

	c.broadcast(ctx, resp.Targets, &Output{
		Type:    "VIDEO_UPDATED",
		Payload: map[string]any{"video_ref": resp.VideoRef},
	})

	return nil
}
