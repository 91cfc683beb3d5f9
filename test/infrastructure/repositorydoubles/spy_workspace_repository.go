//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/manifestwatch/internal/domain/repositories"
)

// SpyWorkspaceRepository implements repositories.WorkspaceRepository in memory.
type SpyWorkspaceRepository struct {
	WriteErr error
	// spy: path -> content written
	Written map[string][]byte
}

var _ repositories.WorkspaceRepository = (*SpyWorkspaceRepository)(nil)

func (w *SpyWorkspaceRepository) WriteManifest(path string, raw []byte) error {
	if w.WriteErr != nil {
		return w.WriteErr
	}
	if w.Written == nil {
		w.Written = map[string][]byte{}
	}
	w.Written[path] = raw
	return nil
}
