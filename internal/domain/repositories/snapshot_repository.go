package repositories

import (
	"context"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
)

// SnapshotRepository persists the manifest of one run so the next run can diff against it.
type SnapshotRepository interface {
	// LoadPrevious returns the most recently stored snapshot, or nil when none is available.
	// It never fails: every restore problem is treated as "no previous snapshot".
	LoadPrevious(ctx context.Context) *entities.ManifestSnapshot

	// StoreCurrent persists the snapshot under a freshly generated key and returns that key.
	StoreCurrent(ctx context.Context, snapshot *entities.ManifestSnapshot) (string, error)
}
