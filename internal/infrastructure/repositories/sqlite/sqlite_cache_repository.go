package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
)

const (
	backendName = entities.BackendSQLite
	driverName  = "sqlite"
	memoryPath  = ":memory:"

	schema = `CREATE TABLE IF NOT EXISTS snapshot_cache (
	cache_key TEXT PRIMARY KEY,
	payload   BLOB NOT NULL,
	saved_at  INTEGER NOT NULL
)`

	selectExact = `SELECT cache_key, payload, saved_at FROM snapshot_cache WHERE cache_key = ?`

	// substr instead of LIKE: prefixes may legitimately contain '_' or '%'.
	selectLatestWithPrefix = `SELECT cache_key, payload, saved_at FROM snapshot_cache
WHERE substr(cache_key, 1, length(?)) = ?
ORDER BY saved_at DESC, cache_key DESC
LIMIT 1`

	upsert = `INSERT INTO snapshot_cache (cache_key, payload, saved_at) VALUES (?, ?, ?)
ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`
)

var pragmas = []string{ //nolint:gochecknoglobals // fixed connection setup
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

// SQLiteCacheRepository implements repositories.CacheRepository on a single SQLite table.
// Every save is one statement, so a snapshot is either fully published or absent.
type SQLiteCacheRepository struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the cache database at path. Use ":memory:" for an ephemeral cache.
func Open(path string, now func() time.Time) (*SQLiteCacheRepository, error) {
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database %q: %w", path, err)
	}
	// each connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)

	for _, statement := range append(pragmas, schema) {
		if _, execErr := db.Exec(statement); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to prepare cache database (%s): %w", statement, execErr)
		}
	}

	return &SQLiteCacheRepository{db: db, now: now}, nil
}

func (it *SQLiteCacheRepository) Name() string { return backendName }

func (it *SQLiteCacheRepository) Close() error { return it.db.Close() }

func (it *SQLiteCacheRepository) Restore(
	ctx context.Context,
	primaryKey string,
	restoreKeys []string,
) (*entities.CacheEntry, error) {
	entry, err := it.queryEntry(ctx, selectExact, primaryKey)
	if !errors.Is(err, entities.ErrCacheMiss) {
		return entry, err
	}

	for _, prefix := range restoreKeys {
		entry, err = it.queryEntry(ctx, selectLatestWithPrefix, prefix, prefix)
		if !errors.Is(err, entities.ErrCacheMiss) {
			return entry, err
		}
	}
	return nil, entities.ErrCacheMiss
}

func (it *SQLiteCacheRepository) Save(ctx context.Context, key string, data []byte) error {
	if _, err := it.db.ExecContext(ctx, upsert, key, data, it.now().UnixNano()); err != nil {
		return fmt.Errorf("failed to save cache entry %q: %w", key, err)
	}
	return nil
}

func (it *SQLiteCacheRepository) queryEntry(
	ctx context.Context,
	query string,
	arguments ...any,
) (*entities.CacheEntry, error) {
	var (
		entry   entities.CacheEntry
		savedAt int64
	)
	err := it.db.QueryRowContext(ctx, query, arguments...).Scan(&entry.Key, &entry.Data, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entities.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}
	entry.SavedAt = time.Unix(0, savedAt)
	return &entry, nil
}
