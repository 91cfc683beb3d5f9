package commands

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	infraRepos "github.com/rios0rios0/manifestwatch/internal/infrastructure/repositories"
)

// fetchManifest downloads and parses the manifest at location.
func fetchManifest(
	ctx context.Context,
	registry *infraRepos.ManifestRegistry,
	location string,
	timeout time.Duration,
) (*entities.ManifestSnapshot, error) {
	fetcher, err := registry.Get(location, timeout)
	if err != nil {
		return nil, err
	}

	raw, err := fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}

	snapshot, err := entities.ParseManifest(raw, location)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Fetched manifest %s with %d versions", location, len(snapshot.Records))
	return snapshot, nil
}

// reportChanges logs the human-readable side of a result. Ambiguous results are warnings:
// they are not failures, but no single new version can be reported.
func reportChanges(log logger.FieldLogger, result entities.ChangeResult) {
	switch result.Classification {
	case entities.NoPrevious:
		log.Info("No previous manifest available, nothing to compare against")
	case entities.NoChange:
		log.Info("No new versions found")
	case entities.SingleAddition:
		added := result.Added[0]
		log.Infof("Found a new version (of type '%s'): %s", added.Kind, added.ID)
	case entities.MultipleAdditions:
		log.Warnf("Found more than one new version: %s", entities.JoinIdentities(result.Added))
	case entities.RemovalsPresent:
		log.Warnf("Found removed versions: %s", entities.JoinIdentities(result.Removed))
		if len(result.Added) > 0 {
			log.Warnf("Found new versions alongside removals: %s", entities.JoinIdentities(result.Added))
		}
	default:
		log.Warnf("Unexpected classification %s", result.Classification)
	}
}
