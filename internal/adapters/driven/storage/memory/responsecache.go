package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
	"github.com/custodia-labs/recon-cli/internal/core/ports/driven"
)

// Ensure ResponseCache implements the interface.
var _ driven.ResponseCache = (*ResponseCache)(nil)

// ResponseCache is an in-memory implementation of driven.ResponseCache.
// Entries are copied on the way in and out.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]domain.CachedResponse
}

// NewResponseCache creates an empty cache.
func NewResponseCache() *ResponseCache {
	return &ResponseCache{entries: make(map[string]domain.CachedResponse)}
}

// Get returns the entry for url, or domain.ErrNotFound.
func (c *ResponseCache) Get(_ context.Context, url string) (*domain.CachedResponse, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[url]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneEntry(&entry), nil
}

// Put stores or replaces an entry.
func (c *ResponseCache) Put(_ context.Context, entry *domain.CachedResponse) error {
	if entry == nil || entry.URL == "" {
		return domain.ErrInvalidInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.URL] = *cloneEntry(entry)
	return nil
}

// Len returns the number of cached entries.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cloneEntry(e *domain.CachedResponse) *domain.CachedResponse {
	out := *e
	out.Header = e.Header.Clone()
	out.Body = bytes.Clone(e.Body)
	return &out
}
