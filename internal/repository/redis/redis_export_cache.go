package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/roguepikachu/easel/internal/repository"
)

func exportKey(id string, revision int64) string {
	return fmt.Sprintf("easel:export:%s:%d", id, revision)
}

// ExportCache stores rendered PNGs under short-lived per-revision keys.
// Everything is best-effort; Redis trouble degrades to re-rendering.
type ExportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewExportCache creates a Redis-backed export cache with the given entry
// lifetime.
func NewExportCache(client *redis.Client, ttl time.Duration) *ExportCache {
	return &ExportCache{client: client, ttl: ttl}
}

// Get returns the cached artifact for the exact session revision.
func (c *ExportCache) Get(ctx context.Context, id string, revision int64) ([]byte, bool) {
	data, err := c.client.Get(ctx, exportKey(id, revision)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores the artifact; failures are swallowed.
func (c *ExportCache) Put(ctx context.Context, id string, revision int64, data []byte) {
	_ = c.client.Set(ctx, exportKey(id, revision), data, c.ttl).Err()
}

// Drop scans out every cached revision of the session.
func (c *ExportCache) Drop(ctx context.Context, id string) {
	pattern := fmt.Sprintf("easel:export:%s:*", id)
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			_ = c.client.Del(ctx, keys...).Err()
		}
		if next == 0 {
			break
		}
		cursor = next
	}
}

var _ repository.ExportCache = (*ExportCache)(nil)
