package room

import (
	"context"
)

type ChatMessageParams struct {
	ConnectionId string
	RoomId       string
	Text         string
}

type ChatMessageResponse struct {
	Message ChatMessage
	// chat echoes back to the sender too, unlike membership updates
	Targets []string
}

// ChatMessage tags the text with the sender's current display name and fans
// it out to the whole room, sender included. No host gating.
func (s service) ChatMessage(ctx context.Context, params *ChatMessageParams) (ChatMessageResponse, error) {
	if params.RoomId == "" {
		return ChatMessageResponse{}, ErrNotInRoom
	}

	displayName, ok := s.registry.DisplayName(params.ConnectionId, params.RoomId)
	if !ok {
		// the room evaporated mid-request, an ordinary race
		return ChatMessageResponse{}, ErrNotInRoom
	}

	return ChatMessageResponse{
		Message: ChatMessage{DisplayName: displayName, Text: params.Text},
		Targets: s.registry.BroadcastTargets(params.RoomId),
	}, nil
}
