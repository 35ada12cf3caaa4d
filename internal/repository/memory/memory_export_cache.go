package memory

import (
	"context"
	"sync"

	"github.com/roguepikachu/easel/internal/repository"
)

type cachedExport struct {
	revision int64
	data     []byte
}

// ExportCache keeps the latest rendered PNG per session. Storing a new
// revision displaces the old one, so stale artifacts never accumulate.
type ExportCache struct {
	mu   sync.Mutex
	byID map[string]cachedExport
}

// NewExportCache creates an empty in-memory export cache.
func NewExportCache() *ExportCache {
	return &ExportCache{byID: make(map[string]cachedExport)}
}

// Get returns the cached artifact when the revision matches exactly.
func (c *ExportCache) Get(_ context.Context, id string, revision int64) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.byID[id]
	if !ok || entry.revision != revision {
		return nil, false
	}
	return entry.data, true
}

// Put stores the artifact for the given revision.
func (c *ExportCache) Put(_ context.Context, id string, revision int64, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[id] = cachedExport{revision: revision, data: data}
}

// Drop forgets everything cached for the session.
func (c *ExportCache) Drop(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byID, id)
}

var _ repository.ExportCache = (*ExportCache)(nil)
