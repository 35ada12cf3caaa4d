// Package memory provides in-memory session and export cache stores, the
// default backend for single-replica deployments and for tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/roguepikachu/easel/internal/domain"
	"github.com/roguepikachu/easel/internal/repository"
)

// SessionRepository is a map-backed repository.SessionRepository. Expired
// sessions evict lazily on read and opportunistically on insert.
type SessionRepository struct {
	mu   sync.RWMutex
	byID map[string]domain.CanvasState
	now  func() time.Time
}

// Option configures the repository.
type Option func(*SessionRepository)

// WithNow overrides the time source used for expiry decisions.
func WithNow(f func() time.Time) Option {
	return func(r *SessionRepository) { r.now = f }
}

// WithSessions seeds the repository with the provided states (by ID).
func WithSessions(items ...domain.CanvasState) Option {
	return func(r *SessionRepository) {
		for _, s := range items {
			r.byID[s.ID] = cloneState(s)
		}
	}
}

// NewSessionRepository creates a new in-memory session repository.
func NewSessionRepository(opts ...Option) *SessionRepository {
	r := &SessionRepository{byID: make(map[string]domain.CanvasState), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Insert stores a new session, sweeping out expired ones while it holds
// the write lock.
func (r *SessionRepository) Insert(_ context.Context, state domain.CanvasState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	r.byID[state.ID] = cloneState(state)
	return nil
}

// FindByID returns the stored session. An expired session counts as absent
// and is removed on the spot.
func (r *SessionRepository) FindByID(_ context.Context, id string) (domain.CanvasState, error) {
	r.mu.RLock()
	state, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return domain.CanvasState{}, repository.ErrNotFound
	}
	if r.expired(state) {
		r.mu.Lock()
		delete(r.byID, id)
		r.mu.Unlock()
		return domain.CanvasState{}, repository.ErrNotFound
	}
	return cloneState(state), nil
}

// Save replaces an existing session wholesale.
func (r *SessionRepository) Save(_ context.Context, state domain.CanvasState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[state.ID]
	if !ok || r.expired(current) {
		delete(r.byID, state.ID)
		return repository.ErrNotFound
	}
	r.byID[state.ID] = cloneState(state)
	return nil
}

// Delete removes a session.
func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *SessionRepository) expired(state domain.CanvasState) bool {
	return !state.ExpiresAt.IsZero() && !r.now().Before(state.ExpiresAt)
}

func (r *SessionRepository) sweepLocked() {
	for id, state := range r.byID {
		if r.expired(state) {
			delete(r.byID, id)
		}
	}
}

// cloneState isolates stored aggregates from caller mutation. Layers and
// their content payloads copy; source image bytes are never written after
// creation and are shared.
func cloneState(s domain.CanvasState) domain.CanvasState {
	out := s
	if s.Layers != nil {
		out.Layers = make([]domain.Layer, len(s.Layers))
		for i, l := range s.Layers {
			cl := l
			if l.Text != nil {
				v := *l.Text
				cl.Text = &v
			}
			if l.Image != nil {
				v := *l.Image
				cl.Image = &v
			}
			if l.QR != nil {
				v := *l.QR
				cl.QR = &v
			}
			out.Layers[i] = cl
		}
	}
	return out
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
