package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	infraRepos "github.com/rios0rios0/manifestwatch/internal/infrastructure/repositories"
)

// Diff is the interface for the diff command (offline comparison of two manifests).
type Diff interface {
	Execute(ctx context.Context, settings entities.Settings, opts DiffOptions) error
}

// DiffOptions names the two manifests to compare.
type DiffOptions struct {
	PreviousLocation string // Path or URL of the older manifest
	CurrentLocation  string // Path or URL of the newer manifest
}

// DiffCommand compares two explicit manifests without touching the snapshot cache.
type DiffCommand struct {
	manifestRegistry *infraRepos.ManifestRegistry
	outputRegistry   *infraRepos.OutputRegistry
}

// NewDiffCommand creates a new DiffCommand with the given registries.
func NewDiffCommand(
	manifestRegistry *infraRepos.ManifestRegistry,
	outputRegistry *infraRepos.OutputRegistry,
) *DiffCommand {
	return &DiffCommand{
		manifestRegistry: manifestRegistry,
		outputRegistry:   outputRegistry,
	}
}

// Execute fetches both manifests, then reports and publishes the comparison.
// Both manifests are mandatory here.
func (it *DiffCommand) Execute(ctx context.Context, settings entities.Settings, opts DiffOptions) error {
	output, err := it.outputRegistry.Get(settings.Output)
	if err != nil {
		return err
	}

	previous, err := fetchManifest(ctx, it.manifestRegistry, opts.PreviousLocation, settings.FetchTimeout)
	if err != nil {
		return fmt.Errorf("previous manifest: %w", err)
	}

	current, err := fetchManifest(ctx, it.manifestRegistry, opts.CurrentLocation, settings.FetchTimeout)
	if err != nil {
		return fmt.Errorf("current manifest: %w", err)
	}

	result := entities.DetectChanges(previous, *current)
	reportChanges(logger.StandardLogger(), result)

	if publishErr := output.Publish(result); publishErr != nil {
		return fmt.Errorf("failed to publish outputs: %w", publishErr)
	}
	return nil
}
