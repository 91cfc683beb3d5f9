package entities

import (
	"errors"
	"strings"
	"time"
)

// ErrCacheMiss is returned by cache backends when neither the exact key nor any restore
// prefix matches a stored entry.
var ErrCacheMiss = errors.New("cache miss")

// CacheEntry is a blob restored from a cache backend.
type CacheEntry struct {
	Key     string
	Data    []byte
	SavedAt time.Time
}

// CacheKeyInfo describes a stored entry without its payload.
type CacheKeyInfo struct {
	Key     string
	SavedAt time.Time
}

// LatestWithPrefix picks the most recently saved entry whose key starts with prefix.
// Entries saved at the same instant are ordered by key, the greatest winning.
func LatestWithPrefix(infos []CacheKeyInfo, prefix string) (CacheKeyInfo, bool) {
	var latest CacheKeyInfo
	found := false
	for _, info := range infos {
		if !strings.HasPrefix(info.Key, prefix) {
			continue
		}
		if !found || newer(info, latest) {
			latest = info
			found = true
		}
	}
	return latest, found
}

func newer(candidate, current CacheKeyInfo) bool {
	if !candidate.SavedAt.Equal(current.SavedAt) {
		return candidate.SavedAt.After(current.SavedAt)
	}
	return candidate.Key > current.Key
}
