package room

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/syncsphere/server/internal/repository/credential"
)

type CreateRoomParams struct {
	RoomId   string
	Password string
}

// CreateRoom reserves a credential for RoomId without touching membership;
// the creator still enters through JoinRoom like everyone else.
func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) error {
	if err := s.credentialRepo.Reserve(ctx, params.RoomId, params.Password); err != nil {
		if errors.Is(err, credential.ErrAlreadyReserved) {
			return ErrRoomAlreadyTaken
		}
		return fmt.Errorf("failed to reserve room: %w", err)
	}

	return nil
}

type JoinRoomParams struct {
	ConnectionId string
	RoomId       string
	DisplayName  string
	Password     string
}

type JoinRoomResponse struct {
	IsHost   bool
	Members  []string
	VideoRef string
	// every other current member, for the membership update fan-out
	Others []string
}

// authorize resolves the credential gate for roomId: an absent credential is
// reserved with the offered password (the create path), a present one must
// match.
func (s service) authorize(ctx context.Context, roomId, password string) error {
	check, err := s.credentialRepo.Check(ctx, roomId, password)
	if err != nil {
		return fmt.Errorf("failed to check credential: %w", err)
	}

	if !check.Exists {
		if err := s.credentialRepo.Reserve(ctx, roomId, password); err != nil {
			if !errors.Is(err, credential.ErrAlreadyReserved) {
				return fmt.Errorf("failed to reserve room: %w", err)
			}
			// lost the race to another creator, fall through to a re-check
			check, err = s.credentialRepo.Check(ctx, roomId, password)
			if err != nil {
				return fmt.Errorf("failed to check credential: %w", err)
			}
			if !check.Matches {
				return ErrWrongPassword
			}
		}
		return nil
	}

	if !check.Matches {
		return ErrWrongPassword
	}

	return nil
}

type AuthorizeJoinParams struct {
	RoomId   string
	Password string
}

// AuthorizeJoin runs the credential gate for a prospective join without
// touching membership. A connection switching rooms must not disturb its
// current room until the destination has accepted the password.
func (s service) AuthorizeJoin(ctx context.Context, params *AuthorizeJoinParams) error {
	if strings.TrimSpace(params.RoomId) == "" {
		return ErrInvalidInput
	}

	return s.authorize(ctx, params.RoomId, params.Password)
}

// JoinRoom gates entry on the credential store and only then mutates the
// registry. The ordering is load-bearing: the registry has no concept of
// passwords, so an unauthorized caller must never reach it first.
func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	if strings.TrimSpace(params.RoomId) == "" || strings.TrimSpace(params.DisplayName) == "" {
		// reject before the credential gate so a blank room id never
		// reserves a credential
		return JoinRoomResponse{}, ErrInvalidInput
	}

	if err := s.authorize(ctx, params.RoomId, params.Password); err != nil {
		return JoinRoomResponse{}, err
	}

	res, ok := s.registry.Join(params.ConnectionId, params.RoomId, params.DisplayName)
	if !ok {
		return JoinRoomResponse{}, ErrInvalidInput
	}

	s.logger.InfoContext(ctx, "member joined",
		"room_id", params.RoomId,
		"connection_id", params.ConnectionId,
		"is_host", res.IsHost,
	)

	return JoinRoomResponse{
		IsHost:   res.IsHost,
		Members:  res.Members,
		VideoRef: res.VideoRef,
		Others:   res.Others,
	}, nil
}
