package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/syncsphere/server/internal/repository/credential"
)

// scheme prefix on stored values, so a future credential format can
// coexist with bcrypt entries
const bcryptScheme = "bcrypt"

type repo struct {
	rc     *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRepo(rc *redis.Client, ttl time.Duration, logger *slog.Logger) *repo {
	return &repo{
		rc:     rc,
		ttl:    ttl,
		logger: logger,
	}
}

func (r repo) getCredentialKey(roomId string) string {
	return "room:" + roomId + ":credential"
}

// Reserve persists the (roomId, password) pair unless a credential already
// exists for roomId. Passwords are stored as bcrypt hashes, never plaintext.
func (r repo) Reserve(ctx context.Context, roomId, password string) error {
	r.logger.DebugContext(ctx, "called", "room_id", roomId)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	set, err := r.rc.SetNX(ctx, r.getCredentialKey(roomId), bcryptScheme+"$"+string(hash), r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to reserve room: %w", err)
	}

	if !set {
		r.logger.DebugContext(ctx, "returned", "error", credential.ErrAlreadyReserved)
		return credential.ErrAlreadyReserved
	}

	return nil
}

// Check reports whether a credential exists for roomId and whether password
// matches it.
func (r repo) Check(ctx context.Context, roomId, password string) (credential.CheckResult, error) {
	r.logger.DebugContext(ctx, "called", "room_id", roomId)

	stored, err := r.rc.Get(ctx, r.getCredentialKey(roomId)).Result()
	if err == redis.Nil {
		return credential.CheckResult{Exists: false}, nil
	}
	if err != nil {
		return credential.CheckResult{}, fmt.Errorf("failed to get credential: %w", err)
	}

	scheme, hash, found := strings.Cut(stored, "$")
	if !found || scheme != bcryptScheme {
		// never fall back to a plaintext comparison
		return credential.CheckResult{}, credential.ErrMalformed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return credential.CheckResult{Exists: true, Matches: false}, nil
	}

	return credential.CheckResult{Exists: true, Matches: true}, nil
}
