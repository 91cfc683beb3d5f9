package repositories

import (
	"context"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
)

// CacheRepository abstracts a key-addressed blob cache (local directory, SQLite, S3, MinIO).
// Backends are not required to support listing to callers: the "latest entry" query is
// expressed through Restore with a key that never matches plus a list of prefixes.
type CacheRepository interface {
	// Name returns the backend identifier (e.g. "filesystem", "s3").
	Name() string

	// Restore returns the entry stored under primaryKey or, failing that, the most recently
	// saved entry whose key starts with one of restoreKeys, tried in order.
	// It returns entities.ErrCacheMiss when nothing matches.
	Restore(ctx context.Context, primaryKey string, restoreKeys []string) (*entities.CacheEntry, error)

	// Save atomically publishes data under key. Saving an existing key replaces its content
	// and makes it the most recent entry.
	Save(ctx context.Context, key string, data []byte) error

	// Close releases the resources held by the backend.
	Close() error
}
