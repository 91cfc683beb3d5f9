package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	"github.com/rios0rios0/manifestwatch/internal/domain/repositories"
)

const (
	backendName   = entities.BackendFilesystem
	entriesDir    = "entries"
	indexFileName = "index.json"
)

// cacheIndex maps every published key to its save time in unix nanoseconds.
// It is rewritten atomically after the entry itself, so an entry missing from the
// index was never published.
type cacheIndex struct {
	Entries map[string]int64 `json:"entries"`
}

// FilesystemCacheRepository implements repositories.CacheRepository on a directory.
type FilesystemCacheRepository struct {
	fs  billy.Filesystem
	now func() time.Time
}

// NewFilesystemCacheRepository creates a cache rooted at the given directory.
func NewFilesystemCacheRepository(directory string) repositories.CacheRepository {
	return NewFilesystemCacheRepositoryWithFS(osfs.New(directory), time.Now)
}

// NewFilesystemCacheRepositoryWithFS creates a cache on an arbitrary billy filesystem.
func NewFilesystemCacheRepositoryWithFS(
	filesystem billy.Filesystem,
	now func() time.Time,
) *FilesystemCacheRepository {
	return &FilesystemCacheRepository{fs: filesystem, now: now}
}

func (it *FilesystemCacheRepository) Name() string { return backendName }

func (it *FilesystemCacheRepository) Close() error { return nil }

// Restore looks up primaryKey in the index, then the newest key for each restore prefix.
func (it *FilesystemCacheRepository) Restore(
	_ context.Context,
	primaryKey string,
	restoreKeys []string,
) (*entities.CacheEntry, error) {
	index, err := it.readIndex()
	if err != nil {
		return nil, err
	}

	if savedAt, ok := index.Entries[primaryKey]; ok {
		return it.readEntry(primaryKey, time.Unix(0, savedAt))
	}

	infos := make([]entities.CacheKeyInfo, 0, len(index.Entries))
	for key, savedAt := range index.Entries {
		infos = append(infos, entities.CacheKeyInfo{Key: key, SavedAt: time.Unix(0, savedAt)})
	}

	for _, prefix := range restoreKeys {
		if latest, found := entities.LatestWithPrefix(infos, prefix); found {
			return it.readEntry(latest.Key, latest.SavedAt)
		}
	}
	return nil, entities.ErrCacheMiss
}

// Save publishes the entry file first and the index second.
func (it *FilesystemCacheRepository) Save(_ context.Context, key string, data []byte) error {
	if err := WriteFileAtomic(it.fs, entryPath(key), data); err != nil {
		return fmt.Errorf("failed to write cache entry %q: %w", key, err)
	}

	index, err := it.readIndex()
	if err != nil {
		return err
	}
	index.Entries[key] = it.now().UnixNano()

	encoded, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache index: %w", err)
	}
	if writeErr := WriteFileAtomic(it.fs, indexFileName, encoded); writeErr != nil {
		return fmt.Errorf("failed to write cache index: %w", writeErr)
	}
	return nil
}

func (it *FilesystemCacheRepository) readIndex() (*cacheIndex, error) {
	index := &cacheIndex{Entries: map[string]int64{}}

	data, err := util.ReadFile(it.fs, indexFileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return index, nil
		}
		return nil, fmt.Errorf("failed to read cache index: %w", err)
	}

	if unmarshalErr := json.Unmarshal(data, index); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse cache index: %w", unmarshalErr)
	}
	if index.Entries == nil {
		index.Entries = map[string]int64{}
	}
	return index, nil
}

func (it *FilesystemCacheRepository) readEntry(key string, savedAt time.Time) (*entities.CacheEntry, error) {
	data, err := util.ReadFile(it.fs, entryPath(key))
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry %q: %w", key, err)
	}
	return &entities.CacheEntry{Key: key, Data: data, SavedAt: savedAt}, nil
}

// entryPath escapes the key so any character is safe in a file name.
func entryPath(key string) string {
	return path.Join(entriesDir, url.PathEscape(key))
}
