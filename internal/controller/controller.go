package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/syncsphere/server/internal/service/room"
	"github.com/syncsphere/server/pkg/validator"
	"github.com/syncsphere/server/pkg/wsrouter"
)

type iRoomService interface {
	CreateRoom(context.Context, *room.CreateRoomParams) error
	AuthorizeJoin(context.Context, *room.AuthorizeJoinParams) error
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	HostAction(context.Context, *room.HostActionParams) (room.HostActionResponse, error)
	ClockSample(context.Context, *room.ClockSampleParams) (room.ClockSampleResponse, error)
	SetVideo(context.Context, *room.SetVideoParams) (room.SetVideoResponse, error)
	ChatMessage(context.Context, *room.ChatMessageParams) (room.ChatMessageResponse, error)
	Disconnect(context.Context, *room.DisconnectParams) (room.DisconnectResponse, error)
}

type iConnRepo interface {
	Add(conn *websocket.Conn, connectionId string) error
	RemoveByConnectionId(connectionId string) error
	GetConnectionId(conn *websocket.Conn) (string, error)
	SetRoom(connectionId, roomId string) error
	GetRoom(connectionId string) (string, error)
	Send(connectionId string, payload any) error
}

type controller struct {
	roomService iRoomService
	connRepo    iConnRepo
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	wsmux       *wsrouter.WSRouter
	roomLocks   roomLocks
	logger      *slog.Logger
}

func NewController(roomService iRoomService, connRepo iConnRepo, logger *slog.Logger) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService: roomService,
		connRepo:    connRepo,
		validate:    validator.NewValidator(),
		logger:      logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}
