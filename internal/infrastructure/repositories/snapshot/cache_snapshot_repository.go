package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	"github.com/rios0rios0/manifestwatch/internal/domain/repositories"
)

// CacheSnapshotRepository implements repositories.SnapshotRepository on top of a
// key-addressed cache backend.
//
// Restoring asks for RestoreKey(prefix), which never matches, with the prefix itself as the
// only restore key: the backend then answers with the most recent snapshot under the prefix.
// Storing always generates a key through the configured policy.
type CacheSnapshotRepository struct {
	cache  repositories.CacheRepository
	prefix string
	policy entities.KeyPolicy
	now    func() time.Time
}

// NewCacheSnapshotRepository creates a snapshot store over cache.
func NewCacheSnapshotRepository(
	cache repositories.CacheRepository,
	prefix string,
	policy entities.KeyPolicy,
	now func() time.Time,
) *CacheSnapshotRepository {
	return &CacheSnapshotRepository{
		cache:  cache,
		prefix: prefix,
		policy: policy,
		now:    now,
	}
}

// LoadPrevious restores the latest snapshot. Misses and broken entries are reported at
// debug level only: a missing previous snapshot is the normal first-run state.
func (it *CacheSnapshotRepository) LoadPrevious(ctx context.Context) *entities.ManifestSnapshot {
	logger.Debugf("Restoring cached manifest from %s cache (prefix %q)", it.cache.Name(), it.prefix)

	entry, err := it.cache.Restore(ctx, entities.RestoreKey(it.prefix), []string{it.prefix})
	if err != nil {
		if errors.Is(err, entities.ErrCacheMiss) {
			logger.Debugf("No cached manifest found under prefix %q", it.prefix)
		} else {
			logger.Debugf("Failed to restore cached manifest: %v", err)
		}
		return nil
	}

	snapshot, err := entities.ParseManifest(entry.Data, entry.Key)
	if err != nil {
		logger.Debugf("Ignoring unreadable cached manifest %q: %v", entry.Key, err)
		return nil
	}

	logger.Debugf("Restored cached manifest %q with %d versions", entry.Key, len(snapshot.Records))
	return snapshot
}

// StoreCurrent saves the raw manifest bytes verbatim under a freshly generated key.
func (it *CacheSnapshotRepository) StoreCurrent(
	ctx context.Context,
	snapshot *entities.ManifestSnapshot,
) (string, error) {
	key, err := it.policy.NextKey(it.prefix, snapshot.Raw, it.now())
	if err != nil {
		return "", err
	}

	if saveErr := it.cache.Save(ctx, key, snapshot.Raw); saveErr != nil {
		return "", fmt.Errorf("failed to save version manifest to cache: %w", saveErr)
	}

	logger.Debugf("Uploaded cache with key %s", key)
	return key, nil
}
