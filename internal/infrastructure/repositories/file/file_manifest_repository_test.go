//go:build unit

package file_test

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/manifestwatch/internal/infrastructure/repositories/file"
)

func TestFileManifestRepository_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("should read an absolute path", func(t *testing.T) {
		t.Parallel()

		// given
		fs := memfs.New()
		require.NoError(t, util.WriteFile(fs, "/fixtures/manifest.json", []byte(`{"versions":[]}`), 0o644))
		repo := file.NewFileManifestRepositoryWithFS(fs)

		// when
		raw, err := repo.Fetch(context.Background(), "/fixtures/manifest.json")

		// then
		require.NoError(t, err)
		assert.Equal(t, `{"versions":[]}`, string(raw))
	})

	t.Run("should read a file URL", func(t *testing.T) {
		t.Parallel()

		// given
		fs := memfs.New()
		require.NoError(t, util.WriteFile(fs, "/fixtures/previous.json", []byte("[]"), 0o644))
		repo := file.NewFileManifestRepositoryWithFS(fs)

		// when
		raw, err := repo.Fetch(context.Background(), "file:///fixtures/previous.json")

		// then
		require.NoError(t, err)
		assert.Equal(t, "[]", string(raw))
	})

	t.Run("should fail for a missing file", func(t *testing.T) {
		t.Parallel()

		// given
		repo := file.NewFileManifestRepositoryWithFS(memfs.New())

		// when
		_, err := repo.Fetch(context.Background(), "/fixtures/missing.json")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read manifest")
	})
}
