package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roguepikachu/easel/internal/domain"
	"github.com/roguepikachu/easel/internal/repository"
)

func sampleState(id string, expiresAt time.Time) domain.CanvasState {
	return domain.CanvasState{
		ID:           id,
		Generated:    true,
		Revision:     1,
		CanvasWidth:  800,
		CanvasHeight: 600,
		Layers: []domain.Layer{
			{Kind: domain.LayerTitle, Position: domain.Point{X: 24, Y: 24}, Size: domain.Size{Width: 200, Height: 60},
				Text: &domain.TextContent{Text: "Launch", Style: domain.TextStyle{Size: 56, Bold: true}}},
		},
		ExpiresAt: expiresAt,
	}
}

func TestMemoryRepo_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	r := NewSessionRepository()
	want := sampleState("s1", time.Time{})
	if err := r.Insert(ctx, want); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := r.FindByID(ctx, "s1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != "s1" || got.CanvasWidth != 800 || len(got.Layers) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestMemoryRepo_FindMissing(t *testing.T) {
	r := NewSessionRepository()
	if _, err := r.FindByID(context.Background(), "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMemoryRepo_ExpiredSessionCountsAsAbsent(t *testing.T) {
	ctx := context.Background()
	current := time.Now()
	r := NewSessionRepository(WithNow(func() time.Time { return current }))
	if err := r.Insert(ctx, sampleState("s1", current.Add(time.Hour))); err != nil {
		t.Fatalf("insert: %v", err)
	}

	current = current.Add(2 * time.Hour)
	if _, err := r.FindByID(ctx, "s1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("want ErrNotFound for expired session, got %v", err)
	}
	// Lazy eviction removed it; save must now fail too.
	if err := r.Save(ctx, sampleState("s1", current.Add(time.Hour))); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("want ErrNotFound on save after expiry, got %v", err)
	}
}

func TestMemoryRepo_InsertSweepsExpired(t *testing.T) {
	ctx := context.Background()
	current := time.Now()
	r := NewSessionRepository(WithNow(func() time.Time { return current }))
	_ = r.Insert(ctx, sampleState("old", current.Add(time.Minute)))

	current = current.Add(time.Hour)
	_ = r.Insert(ctx, sampleState("new", current.Add(time.Minute)))

	r.mu.RLock()
	_, oldThere := r.byID["old"]
	r.mu.RUnlock()
	if oldThere {
		t.Fatal("insert did not sweep the expired session")
	}
}

func TestMemoryRepo_SaveReplacesWholeAggregate(t *testing.T) {
	ctx := context.Background()
	r := NewSessionRepository(WithSessions(sampleState("s1", time.Time{})))

	updated := sampleState("s1", time.Time{})
	updated.Revision = 7
	updated.Layers[0].Position = domain.Point{X: 100, Y: 50}
	if err := r.Save(ctx, updated); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := r.FindByID(ctx, "s1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Revision != 7 || got.Layers[0].Position.X != 100 {
		t.Fatalf("save did not replace state: %+v", got)
	}
}

func TestMemoryRepo_SaveMissing(t *testing.T) {
	r := NewSessionRepository()
	if err := r.Save(context.Background(), sampleState("ghost", time.Time{})); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMemoryRepo_Delete(t *testing.T) {
	ctx := context.Background()
	r := NewSessionRepository(WithSessions(sampleState("s1", time.Time{})))
	if err := r.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r.FindByID(ctx, "s1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	if err := r.Delete(ctx, "s1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("want ErrNotFound for double delete, got %v", err)
	}
}

func TestMemoryRepo_ReturnedStateIsIsolated(t *testing.T) {
	ctx := context.Background()
	r := NewSessionRepository(WithSessions(sampleState("s1", time.Time{})))

	got, err := r.FindByID(ctx, "s1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	got.Layers[0].Position.X = 999
	got.Layers[0].Text.Text = "tampered"

	fresh, err := r.FindByID(ctx, "s1")
	if err != nil {
		t.Fatalf("refind: %v", err)
	}
	if fresh.Layers[0].Position.X == 999 || fresh.Layers[0].Text.Text == "tampered" {
		t.Fatal("mutating a returned state leaked into the store")
	}
}

func TestMemoryRepo_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	r := NewSessionRepository(WithSessions(sampleState("s1", time.Time{})))
	done := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				_, _ = r.FindByID(ctx, "s1")
				_ = r.Save(ctx, sampleState("s1", time.Time{}))
			}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
