package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

// ResponseCache stores conditional-request entries for the platform transport.
type ResponseCache interface {
	// Get returns the entry for url, or domain.ErrNotFound.
	Get(ctx context.Context, url string) (*domain.CachedResponse, error)

	// Put stores or replaces an entry.
	Put(ctx context.Context, entry *domain.CachedResponse) error
}

// CacheMaintainer exposes housekeeping over the response cache.
type CacheMaintainer interface {
	Stats(ctx context.Context) (domain.CacheStats, error)
	Clear(ctx context.Context) (int64, error)
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
	Path() string
}
