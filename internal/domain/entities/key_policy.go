package entities

import (
	_ "crypto/sha256" // registers the digest algorithm
	"fmt"
	"strconv"
	"time"

	"github.com/opencontainers/go-digest"
)

// KeyPolicy selects how the cache key of a stored snapshot is generated.
type KeyPolicy string

const (
	// KeyPolicyTimestamp appends the save time in unix milliseconds. Every run creates a new
	// cache entry, even when the manifest did not change.
	KeyPolicyTimestamp KeyPolicy = "timestamp"
	// KeyPolicyContentHash appends a short sha256 digest of the raw manifest, so an unchanged
	// manifest maps to the entry it already has.
	KeyPolicyContentHash KeyPolicy = "content-hash"

	restoreKeySentinel = "0"
	shortDigestLength  = 12
)

// RestoreKey returns the exact key used when restoring the previous snapshot. It is a
// placeholder that no key policy ever produces, so the lookup always falls back to the
// most recent entry sharing the prefix.
func RestoreKey(prefix string) string {
	return prefix + restoreKeySentinel
}

// Valid reports whether the policy is a known one.
func (p KeyPolicy) Valid() bool {
	return p == KeyPolicyTimestamp || p == KeyPolicyContentHash
}

// NextKey generates the key the current snapshot is stored under.
func (p KeyPolicy) NextKey(prefix string, raw []byte, now time.Time) (string, error) {
	switch p {
	case KeyPolicyTimestamp:
		return prefix + strconv.FormatInt(now.UnixMilli(), 10), nil
	case KeyPolicyContentHash:
		return prefix + digest.SHA256.FromBytes(raw).Encoded()[:shortDigestLength], nil
	default:
		return "", fmt.Errorf("unknown key policy: %q", string(p))
	}
}
