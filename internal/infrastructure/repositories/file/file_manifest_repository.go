package file

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/rios0rios0/manifestwatch/internal/domain/repositories"
)

// FileManifestRepository implements repositories.ManifestRepository for local paths
// and file:// URLs.
type FileManifestRepository struct {
	fs billy.Filesystem
}

// NewFileManifestRepository creates a reader on the host filesystem.
func NewFileManifestRepository() repositories.ManifestRepository {
	return NewFileManifestRepositoryWithFS(osfs.New("/"))
}

// NewFileManifestRepositoryWithFS creates a reader on an arbitrary billy filesystem.
func NewFileManifestRepositoryWithFS(filesystem billy.Filesystem) *FileManifestRepository {
	return &FileManifestRepository{fs: filesystem}
}

func (it *FileManifestRepository) Fetch(_ context.Context, location string) ([]byte, error) {
	path, err := resolvePath(location)
	if err != nil {
		return nil, err
	}

	data, err := util.ReadFile(it.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", location, err)
	}
	return data, nil
}

// resolvePath turns a file:// URL or a plain path into an absolute path.
func resolvePath(location string) (string, error) {
	if strings.HasPrefix(location, "file://") {
		parsed, err := url.Parse(location)
		if err != nil {
			return "", fmt.Errorf("invalid manifest location %q: %w", location, err)
		}
		return parsed.Path, nil
	}

	path, err := filepath.Abs(location)
	if err != nil {
		return "", fmt.Errorf("invalid manifest location %q: %w", location, err)
	}
	return path, nil
}
