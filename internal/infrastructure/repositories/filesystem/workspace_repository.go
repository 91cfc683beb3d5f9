package filesystem

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/rios0rios0/manifestwatch/internal/domain/repositories"
)

// WorkspaceRepository implements repositories.WorkspaceRepository on the job workspace.
type WorkspaceRepository struct {
	fs billy.Filesystem
}

// NewWorkspaceRepository creates a workspace writer on the host filesystem.
func NewWorkspaceRepository() repositories.WorkspaceRepository {
	return NewWorkspaceRepositoryWithFS(osfs.New("/"))
}

// NewWorkspaceRepositoryWithFS creates a workspace writer on an arbitrary billy filesystem.
func NewWorkspaceRepositoryWithFS(filesystem billy.Filesystem) *WorkspaceRepository {
	return &WorkspaceRepository{fs: filesystem}
}

// WriteManifest resolves path against the working directory and writes it atomically.
func (it *WorkspaceRepository) WriteManifest(path string, raw []byte) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid manifest path %q: %w", path, err)
	}
	return WriteFileAtomic(it.fs, absPath, raw)
}
