package repositories

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	domainRepos "github.com/rios0rios0/manifestwatch/internal/domain/repositories"
)

const schemeFile = "file"

// ManifestFactory is a constructor function that creates a ManifestRepository with a fetch timeout.
type ManifestFactory func(timeout time.Duration) domainRepos.ManifestRepository

// ManifestRegistry maps location schemes ("https", "file", ...) to manifest fetchers.
type ManifestRegistry struct {
	factories map[string]ManifestFactory
}

// NewManifestRegistry creates an empty manifest registry.
func NewManifestRegistry() *ManifestRegistry {
	return &ManifestRegistry{
		factories: make(map[string]ManifestFactory),
	}
}

// Register adds a fetcher factory for a scheme.
func (r *ManifestRegistry) Register(scheme string, factory ManifestFactory) {
	r.factories[strings.ToLower(scheme)] = factory
}

// Get returns the fetcher able to read location. Locations without a scheme are local paths.
func (r *ManifestRegistry) Get(location string, timeout time.Duration) (domainRepos.ManifestRepository, error) {
	scheme := SchemeOf(location)
	factory, ok := r.factories[scheme]
	if !ok {
		return nil, fmt.Errorf("unsupported manifest location %q (scheme %q)", location, scheme)
	}
	return factory(timeout), nil
}

// SchemeOf returns the lower-cased URL scheme of location, or "file" for plain paths.
func SchemeOf(location string) string {
	parsed, err := url.Parse(location)
	// a one-letter scheme is a Windows drive letter
	if err != nil || len(parsed.Scheme) <= 1 {
		return schemeFile
	}
	return strings.ToLower(parsed.Scheme)
}
