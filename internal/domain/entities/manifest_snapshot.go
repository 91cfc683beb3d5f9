package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyManifest is returned when a manifest document carries no version list.
var ErrEmptyManifest = errors.New("manifest document has no versions list")

// ManifestSnapshot is one fetched or restored copy of a version manifest.
type ManifestSnapshot struct {
	Records    []VersionRecord
	Raw        []byte // Exact wire bytes, persisted verbatim
	Provenance string // Cache key it was restored from, or the location it was fetched from
}

type manifestDocument struct {
	Versions []VersionRecord `json:"versions"`
}

// ParseManifest decodes the wire format into a snapshot. The document is either an object
// holding a "versions" array (the published layout) or a bare array of records.
func ParseManifest(raw []byte, provenance string) (*ManifestSnapshot, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("failed to parse manifest %q: %w", provenance, ErrEmptyManifest)
	}

	var records []VersionRecord
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %q: %w", provenance, err)
		}
	} else {
		var doc manifestDocument
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %q: %w", provenance, err)
		}
		if doc.Versions == nil {
			return nil, fmt.Errorf("failed to parse manifest %q: %w", provenance, ErrEmptyManifest)
		}
		records = doc.Versions
	}

	return &ManifestSnapshot{
		Records:    records,
		Raw:        raw,
		Provenance: provenance,
	}, nil
}
