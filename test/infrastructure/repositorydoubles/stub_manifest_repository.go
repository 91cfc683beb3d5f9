//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/manifestwatch/internal/domain/repositories"
)

// StubManifestRepository implements repositories.ManifestRepository from a fixed map.
type StubManifestRepository struct {
	Manifests map[string][]byte // location -> raw manifest
	FetchErr  error
	// spy: locations requested
	FetchedLocations []string
}

var _ repositories.ManifestRepository = (*StubManifestRepository)(nil)

func (m *StubManifestRepository) Fetch(_ context.Context, location string) ([]byte, error) {
	m.FetchedLocations = append(m.FetchedLocations, location)
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	raw, ok := m.Manifests[location]
	if !ok {
		return nil, fmt.Errorf("no manifest at %q", location)
	}
	return raw, nil
}
