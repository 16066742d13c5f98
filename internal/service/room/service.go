// Package room implements the synchronization coordinator: it maps inbound
// protocol events onto registry transitions and decides which connections
// each outbound event fans out to. All playback-affecting events are gated
// on host authority here; the registry stays policy-free.
package room

import (
	"context"
	"errors"
	"log/slog"

	"github.com/syncsphere/server/internal/registry"
	"github.com/syncsphere/server/internal/repository/credential"
)

var (
	// silent drop: never surfaced to the sender
	ErrPermissionDenied = errors.New("permission denied")
	// ordinary race with a concurrent departure, also never surfaced
	ErrNotInRoom = errors.New("not in a room")

	ErrInvalidInput     = errors.New("invalid room id or display name")
	ErrInvalidAction    = errors.New("invalid playback action")
	ErrWrongPassword    = errors.New("wrong password")
	ErrRoomAlreadyTaken = errors.New("room already exists")
)

type iRegistry interface {
	Join(connectionId, roomId, displayName string) (registry.JoinResult, bool)
	Leave(connectionId, roomId string) bool
	ListMembers(roomId string) []string
	IsHost(connectionId, roomId string) bool
	BroadcastTargets(roomId string, exclude ...string) []string
	DisplayName(connectionId, roomId string) (string, bool)
	SetVideoReference(roomId, videoRef string) bool
	VideoReference(roomId string) string
}

type iCredentialRepo interface {
	Reserve(ctx context.Context, roomId, password string) error
	Check(ctx context.Context, roomId, password string) (credential.CheckResult, error)
}

type service struct {
	registry       iRegistry
	credentialRepo iCredentialRepo
	logger         *slog.Logger
}

func NewService(reg iRegistry, credentialRepo iCredentialRepo, logger *slog.Logger) *service {
	return &service{
		registry:       reg,
		credentialRepo: credentialRepo,
		logger:         logger,
	}
}

// checkIfHost gates host-only events. A non-host sender gets a silent no-op
// so a misbehaving client cannot probe host identity through error timing.
func (s service) checkIfHost(connectionId, roomId string) error {
	if roomId == "" {
		return ErrNotInRoom
	}
	if !s.registry.IsHost(connectionId, roomId) {
		return ErrPermissionDenied
	}

	return nil
}
