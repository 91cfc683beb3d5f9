package filesystem

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
)

// WriteFileAtomic writes data next to name in a temporary file and renames it into place,
// so readers never observe a partially written file.
func WriteFileAtomic(fs billy.Filesystem, name string, data []byte) error {
	dir := filepath.Dir(name)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	tmp, err := fs.TempFile(dir, "."+filepath.Base(name)+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %q: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, writeErr := tmp.Write(data); writeErr != nil {
		_ = tmp.Close()
		_ = fs.Remove(tmpName)
		return fmt.Errorf("failed to write %q: %w", tmpName, writeErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("failed to close %q: %w", tmpName, closeErr)
	}

	if renameErr := fs.Rename(tmpName, name); renameErr != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("failed to publish %q: %w", name, renameErr)
	}
	return nil
}
