// Package repository defines the data access contracts for poster sessions.
package repository

import (
	"context"
	"errors"

	"github.com/roguepikachu/easel/internal/domain"
)

// ErrNotFound is returned when no stored session matches the requested ID.
var ErrNotFound = errors.New("not found")

// SessionRepository defines methods for CanvasState persistence. Save
// replaces the whole aggregate in one write; partial updates do not exist.
type SessionRepository interface {
	Insert(ctx context.Context, state domain.CanvasState) error
	FindByID(ctx context.Context, id string) (domain.CanvasState, error)
	Save(ctx context.Context, state domain.CanvasState) error
	Delete(ctx context.Context, id string) error
}

// ExportCache stores rendered poster PNGs keyed by session and revision.
// Implementations are best-effort: a miss, a failed fill or a failed drop
// never surfaces as an error to callers.
type ExportCache interface {
	Get(ctx context.Context, id string, revision int64) ([]byte, bool)
	Put(ctx context.Context, id string, revision int64, data []byte)
	Drop(ctx context.Context, id string)
}
