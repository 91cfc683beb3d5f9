package repositories

import "context"

// ManifestRepository fetches the raw bytes of a manifest from a location (URL or path).
type ManifestRepository interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// WorkspaceRepository writes run artifacts for downstream steps of the same job.
type WorkspaceRepository interface {
	// WriteManifest atomically writes the raw manifest to path.
	WriteManifest(path string, raw []byte) error
}
