//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"time"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	"github.com/rios0rios0/manifestwatch/internal/domain/repositories"
)

// FakeCacheRepository is an in-memory repositories.CacheRepository with injectable failures.
// Entries are ordered by insertion: each Save is one tick later than the previous one.
type FakeCacheRepository struct {
	// --- state ---
	Entries map[string]entities.CacheEntry
	tick    int64

	// --- Restore ---
	RestoreErr   error
	RestoreCalls []RestoreCall

	// --- Save ---
	SaveErr   error
	SavedKeys []string

	// --- Close ---
	Closed bool
}

// RestoreCall records a single invocation of Restore.
type RestoreCall struct {
	PrimaryKey  string
	RestoreKeys []string
}

var _ repositories.CacheRepository = (*FakeCacheRepository)(nil)

// NewFakeCacheRepository creates an empty fake cache.
func NewFakeCacheRepository() *FakeCacheRepository {
	return &FakeCacheRepository{Entries: map[string]entities.CacheEntry{}}
}

// Seed stores data under key as if a previous run saved it.
func (c *FakeCacheRepository) Seed(key string, data []byte) {
	c.tick++
	c.Entries[key] = entities.CacheEntry{Key: key, Data: data, SavedAt: time.Unix(c.tick, 0)}
}

func (c *FakeCacheRepository) Name() string { return "fake" }

func (c *FakeCacheRepository) Restore(
	_ context.Context,
	primaryKey string,
	restoreKeys []string,
) (*entities.CacheEntry, error) {
	c.RestoreCalls = append(c.RestoreCalls, RestoreCall{PrimaryKey: primaryKey, RestoreKeys: restoreKeys})
	if c.RestoreErr != nil {
		return nil, c.RestoreErr
	}

	if entry, ok := c.Entries[primaryKey]; ok {
		return &entry, nil
	}

	infos := make([]entities.CacheKeyInfo, 0, len(c.Entries))
	for key, entry := range c.Entries {
		infos = append(infos, entities.CacheKeyInfo{Key: key, SavedAt: entry.SavedAt})
	}
	for _, prefix := range restoreKeys {
		if latest, found := entities.LatestWithPrefix(infos, prefix); found {
			entry := c.Entries[latest.Key]
			return &entry, nil
		}
	}
	return nil, entities.ErrCacheMiss
}

func (c *FakeCacheRepository) Save(_ context.Context, key string, data []byte) error {
	if c.SaveErr != nil {
		return c.SaveErr
	}
	c.SavedKeys = append(c.SavedKeys, key)
	c.Seed(key, data)
	return nil
}

func (c *FakeCacheRepository) Close() error {
	c.Closed = true
	return nil
}
