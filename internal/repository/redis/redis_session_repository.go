// Package redis provides Redis-backed session and export cache stores for
// multi-replica deployments.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/roguepikachu/easel/internal/domain"
	"github.com/roguepikachu/easel/internal/repository"
)

func sessionKey(id string) string { return "easel:session:" + id }

// SessionRepository implements repository.SessionRepository on Redis. Each
// session is one JSON value whose TTL tracks the session expiry, sliding
// forward on every save.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository creates a Redis-backed session repository. ttl is
// the fallback key lifetime for states without an explicit expiry.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

// Insert stores a new session.
func (r *SessionRepository) Insert(ctx context.Context, state domain.CanvasState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(state.ID), data, r.expiry(state)).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// FindByID retrieves a session. Keys Redis has already expired count as
// absent.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (domain.CanvasState, error) {
	val, err := r.client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.CanvasState{}, repository.ErrNotFound
	}
	if err != nil {
		return domain.CanvasState{}, fmt.Errorf("redis get: %w", err)
	}
	var state domain.CanvasState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return domain.CanvasState{}, fmt.Errorf("unmarshal: %w", err)
	}
	return state, nil
}

// Save replaces an existing session and slides its TTL forward. A vanished
// key reports ErrNotFound instead of resurrecting the session.
func (r *SessionRepository) Save(ctx context.Context, state domain.CanvasState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	set, err := r.client.SetXX(ctx, sessionKey(state.ID), data, r.expiry(state)).Result()
	if err != nil {
		return fmt.Errorf("redis setxx: %w", err)
	}
	if !set {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a session.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) expiry(state domain.CanvasState) time.Duration {
	if state.ExpiresAt.IsZero() {
		return r.ttl
	}
	expiry := time.Until(state.ExpiresAt)
	if expiry <= 0 {
		// Redis rejects non-positive expirations; a past-due state still
		// needs its key to lapse promptly.
		return time.Second
	}
	return expiry
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
