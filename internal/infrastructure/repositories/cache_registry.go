package repositories

import (
	"context"
	"fmt"
	"sort"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	domainRepos "github.com/rios0rios0/manifestwatch/internal/domain/repositories"
)

// CacheFactory is a constructor function that opens a CacheRepository from its settings.
type CacheFactory func(ctx context.Context, settings entities.CacheSettings) (domainRepos.CacheRepository, error)

// CacheRegistry manages all registered snapshot cache backends.
type CacheRegistry struct {
	factories map[string]CacheFactory
}

// NewCacheRegistry creates an empty cache registry.
func NewCacheRegistry() *CacheRegistry {
	return &CacheRegistry{
		factories: make(map[string]CacheFactory),
	}
}

// Register adds a backend factory under the given name (e.g. "filesystem").
func (r *CacheRegistry) Register(name string, factory CacheFactory) {
	r.factories[name] = factory
}

// Get opens the backend selected by settings.Backend.
func (r *CacheRegistry) Get(
	ctx context.Context,
	settings entities.CacheSettings,
) (domainRepos.CacheRepository, error) {
	factory, ok := r.factories[settings.Backend]
	if !ok {
		return nil, fmt.Errorf("%w: %q", entities.ErrUnknownBackend, settings.Backend)
	}

	cache, err := factory(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s cache: %w", settings.Backend, err)
	}
	return cache, nil
}

// Names returns the sorted list of registered backend names.
func (r *CacheRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
