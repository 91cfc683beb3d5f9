package commands

import (
	"context"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	"github.com/rios0rios0/manifestwatch/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/manifestwatch/internal/infrastructure/repositories"
	"github.com/rios0rios0/manifestwatch/internal/infrastructure/repositories/snapshot"
)

// Check is the interface for the check command (one CI run).
type Check interface {
	Execute(ctx context.Context, settings entities.Settings) error
}

// CheckCommand orchestrates a single run:
// load previous snapshot -> fetch current manifest -> detect -> publish -> store current.
type CheckCommand struct {
	cacheRegistry    *infraRepos.CacheRegistry
	manifestRegistry *infraRepos.ManifestRegistry
	outputRegistry   *infraRepos.OutputRegistry
	workspace        repositories.WorkspaceRepository
	now              func() time.Time
}

// NewCheckCommand creates a new CheckCommand with the given registries.
func NewCheckCommand(
	cacheRegistry *infraRepos.CacheRegistry,
	manifestRegistry *infraRepos.ManifestRegistry,
	outputRegistry *infraRepos.OutputRegistry,
	workspace repositories.WorkspaceRepository,
) *CheckCommand {
	return &CheckCommand{
		cacheRegistry:    cacheRegistry,
		manifestRegistry: manifestRegistry,
		outputRegistry:   outputRegistry,
		workspace:        workspace,
		now:              time.Now,
	}
}

// Execute runs the check. Only a failure to fetch or parse the current manifest, or to
// store it afterwards, is returned as an error.
func (it *CheckCommand) Execute(ctx context.Context, settings entities.Settings) error {
	output, err := it.outputRegistry.Get(settings.Output)
	if err != nil {
		return err
	}

	snapshots, closeCache, openErr := it.openSnapshots(ctx, settings)

	var previous *entities.ManifestSnapshot
	if openErr != nil {
		logger.Debugf("Cache unavailable, continuing without a previous manifest: %v", openErr)
	} else {
		defer closeCache()
		logger.Debug("Downloading cached manifest")
		previous = snapshots.LoadPrevious(ctx)
	}

	logger.Debug("Downloading manifest")
	current, err := fetchManifest(ctx, it.manifestRegistry, settings.ManifestURL, settings.FetchTimeout)
	if err != nil {
		return err
	}

	if settings.ManifestPath != "" {
		if writeErr := it.workspace.WriteManifest(settings.ManifestPath, current.Raw); writeErr != nil {
			return fmt.Errorf("failed to write manifest to %q: %w", settings.ManifestPath, writeErr)
		}
		logger.Debugf("Wrote current manifest to %s", settings.ManifestPath)
	}

	if previous != nil {
		logger.Debug("Comparing manifests")
	}
	result := entities.DetectChanges(previous, *current)
	reportChanges(logger.StandardLogger(), result)

	if publishErr := output.Publish(result); publishErr != nil {
		return fmt.Errorf("failed to publish outputs: %w", publishErr)
	}

	if settings.DisableCacheWrite {
		logger.Info("Cache write disabled, the current manifest is not stored")
		return nil
	}

	logger.Debug("Uploading new manifest to cache")
	if openErr != nil {
		return fmt.Errorf("failed to save version manifest to cache: %w", openErr)
	}
	if _, storeErr := snapshots.StoreCurrent(ctx, current); storeErr != nil {
		return storeErr
	}
	return nil
}

// openSnapshots opens the configured cache backend and returns the function closing it.
func (it *CheckCommand) openSnapshots(
	ctx context.Context,
	settings entities.Settings,
) (repositories.SnapshotRepository, func(), error) {
	cache, err := it.cacheRegistry.Get(ctx, settings.Cache)
	if err != nil {
		return nil, nil, err
	}

	closeCache := func() {
		if closeErr := cache.Close(); closeErr != nil {
			logger.Debugf("Failed to close %s cache: %v", cache.Name(), closeErr)
		}
	}

	return snapshot.NewCacheSnapshotRepository(
		cache,
		settings.CacheKeyPrefix,
		settings.KeyPolicy,
		it.now,
	), closeCache, nil
}
