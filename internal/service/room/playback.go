package room

import (
	"context"
)

type HostActionParams struct {
	ConnectionId string
	RoomId       string
	Kind         ActionKind
	Time         float64
}

type HostActionResponse struct {
	Action PlaybackAction
	// every member except the sending host
	Targets []string
}

// HostAction relays a play/pause/seek verbatim to the rest of the room.
// Non-host senders are dropped without a reply.
func (s service) HostAction(ctx context.Context, params *HostActionParams) (HostActionResponse, error) {
	if err := s.checkIfHost(params.ConnectionId, params.RoomId); err != nil {
		return HostActionResponse{}, err
	}

	if !params.Kind.IsValid() || params.Time < 0 {
		return HostActionResponse{}, ErrInvalidAction
	}

	s.logger.DebugContext(ctx, "host action",
		"room_id", params.RoomId,
		"kind", params.Kind,
		"time", params.Time,
	)

	return HostActionResponse{
		Action:  PlaybackAction{Kind: params.Kind, Time: params.Time},
		Targets: s.registry.BroadcastTargets(params.RoomId, params.ConnectionId),
	}, nil
}

type ClockSampleParams struct {
	ConnectionId string
	RoomId       string
	Time         float64
}

type ClockSampleResponse struct {
	Time    float64
	Targets []string
}

// ClockSample relays the host's periodic clock to the viewers for drift
// correction. Same gating as HostAction.
func (s service) ClockSample(ctx context.Context, params *ClockSampleParams) (ClockSampleResponse, error) {
	if err := s.checkIfHost(params.ConnectionId, params.RoomId); err != nil {
		return ClockSampleResponse{}, err
	}

	if params.Time < 0 {
		return ClockSampleResponse{}, ErrInvalidAction
	}

	return ClockSampleResponse{
		Time:    params.Time,
		Targets: s.registry.BroadcastTargets(params.RoomId, params.ConnectionId),
	}, nil
}

type SetVideoParams struct {
	ConnectionId string
	RoomId       string
	VideoRef     string
}

type SetVideoResponse struct {
	VideoRef string
	Targets  []string
}

// SetVideo changes the room's current video reference. Host only; the
// reference is opaque to the server.
func (s service) SetVideo(ctx context.Context, params *SetVideoParams) (SetVideoResponse, error) {
	if err := s.checkIfHost(params.ConnectionId, params.RoomId); err != nil {
		return SetVideoResponse{}, err
	}

	if !s.registry.SetVideoReference(params.RoomId, params.VideoRef) {
		return SetVideoResponse{}, ErrNotInRoom
	}

	s.logger.InfoContext(ctx, "video updated",
		"room_id", params.RoomId,
		"video_ref", params.VideoRef,
	)

	return SetVideoResponse{
		VideoRef: params.VideoRef,
		Targets:  s.registry.BroadcastTargets(params.RoomId, params.ConnectionId),
	}, nil
}
