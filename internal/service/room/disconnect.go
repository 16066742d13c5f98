package room

import (
	"context"
)

type DisconnectParams struct {
	ConnectionId string
	RoomId       string
}

type DisconnectResponse struct {
	Destroyed bool
	// snapshot taken before the registry mutation: once the room is
	// destroyed the registry can no longer enumerate its members
	Targets []string
	// remaining member list, only meaningful when the room survived
	Members []string
}

// Disconnect removes the connection from its room. Host departure destroys
// the room; the remaining members are told either way.
func (s service) Disconnect(ctx context.Context, params *DisconnectParams) (DisconnectResponse, error) {
	if params.RoomId == "" {
		return DisconnectResponse{}, ErrNotInRoom
	}

	if _, ok := s.registry.DisplayName(params.ConnectionId, params.RoomId); !ok {
		return DisconnectResponse{}, ErrNotInRoom
	}

	targets := s.registry.BroadcastTargets(params.RoomId, params.ConnectionId)

	destroyed := s.registry.Leave(params.ConnectionId, params.RoomId)

	s.logger.InfoContext(ctx, "member left",
		"room_id", params.RoomId,
		"connection_id", params.ConnectionId,
		"room_destroyed", destroyed,
	)

	resp := DisconnectResponse{
		Destroyed: destroyed,
		Targets:   targets,
	}
	if !destroyed {
		resp.Members = s.registry.ListMembers(params.RoomId)
	}

	return resp, nil
}
