//go:build unit

package githubactions_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sethvargo/go-githubactions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	ghaRepo "github.com/rios0rios0/manifestwatch/internal/infrastructure/repositories/githubactions"
	builders "github.com/rios0rios0/manifestwatch/test/domain/entitybuilders"
)

func runnerEnv(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGitHubOutputRepository_Publish(t *testing.T) {
	t.Parallel()

	t.Run("should write step outputs and a summary", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		outputPath := filepath.Join(dir, "output")
		summaryPath := filepath.Join(dir, "summary")
		require.NoError(t, os.WriteFile(outputPath, nil, 0o600))
		require.NoError(t, os.WriteFile(summaryPath, nil, 0o600))
		repo := ghaRepo.NewGitHubOutputRepository(runnerEnv(map[string]string{
			"GITHUB_OUTPUT":       outputPath,
			"GITHUB_STEP_SUMMARY": summaryPath,
		}))
		result := entities.ChangeResult{
			Added:          []entities.VersionRecord{builders.Record("1.20.1", "release", "https://piston-meta.example/1.20.1.json")},
			Removed:        []entities.VersionRecord{},
			Classification: entities.SingleAddition,
		}

		// when
		err := repo.Publish(result)

		// then
		require.NoError(t, err)
		output := readFile(t, outputPath)
		assert.Contains(t, output, "id<<")
		assert.Contains(t, output, "1.20.1")
		assert.Contains(t, output, "type<<")
		assert.Contains(t, output, "https://piston-meta.example/1.20.1.json")
		assert.Contains(t, output, "single-addition")
		summary := readFile(t, summaryPath)
		assert.Contains(t, summary, "| added | 1.20.1 | release |")
		assert.Equal(t, entities.OutputGitHub, repo.Name())
	})

	t.Run("should skip the summary when the runner provides none", func(t *testing.T) {
		t.Parallel()

		// given
		outputPath := filepath.Join(t.TempDir(), "output")
		require.NoError(t, os.WriteFile(outputPath, nil, 0o600))
		repo := ghaRepo.NewGitHubOutputRepository(runnerEnv(map[string]string{"GITHUB_OUTPUT": outputPath}))
		result := entities.ChangeResult{
			Removed:        []entities.VersionRecord{builders.Record("1.20", "release", "u1")},
			Classification: entities.RemovalsPresent,
		}

		// when
		err := repo.Publish(result)

		// then
		require.NoError(t, err)
		output := readFile(t, outputPath)
		assert.Contains(t, output, "removals-present")
		assert.Contains(t, output, "removed-count<<")
	})

	t.Run("should fall back to workflow commands without an output file", func(t *testing.T) {
		t.Parallel()

		// given
		var buffer bytes.Buffer
		getenv := runnerEnv(nil)
		action := githubactions.New(githubactions.WithGetenv(getenv), githubactions.WithWriter(&buffer))
		repo := ghaRepo.NewGitHubOutputRepositoryWithAction(action, getenv)
		result := entities.ChangeResult{Classification: entities.NoChange}

		// when
		err := repo.Publish(result)

		// then
		require.NoError(t, err)
		assert.Contains(t, buffer.String(), "set-output")
		assert.Contains(t, buffer.String(), "no-change")
	})
}
