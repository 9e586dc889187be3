package ports

import (
	"context"

	"etemplate-service/internal/core/domain"
)

// ============================================================================
// Transformed Template Cache
// ============================================================================

// CacheStore persists transformed templates keyed by request path.
type CacheStore interface {
	// Get returns domain.ErrCacheMiss when nothing is stored under key.
	Get(ctx context.Context, key string) (*domain.CacheEntry, error)
	Put(ctx context.Context, key string, body []byte) error
	// Delete drops the entry under key. A missing entry is not an error.
	Delete(ctx context.Context, key string) error
}
