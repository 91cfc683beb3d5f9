//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"encoding/json"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ManifestBuilder helps create manifests in the published wire format.
type ManifestBuilder struct {
	*testkit.BaseBuilder
	records    []entities.VersionRecord
	provenance string
}

// NewManifestBuilder creates an empty manifest builder.
func NewManifestBuilder() *ManifestBuilder {
	return &ManifestBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		provenance:  "https://launchermeta.example/version_manifest_v2.json",
	}
}

// WithRecords appends records to the manifest.
func (b *ManifestBuilder) WithRecords(records ...entities.VersionRecord) *ManifestBuilder {
	b.records = append(b.records, records...)
	return b
}

// WithProvenance sets the provenance of the built snapshot.
func (b *ManifestBuilder) WithProvenance(provenance string) *ManifestBuilder {
	b.provenance = provenance
	return b
}

// Build creates the snapshot (satisfies testkit.Builder interface).
func (b *ManifestBuilder) Build() interface{} {
	return b.BuildSnapshot()
}

// BuildRaw renders the manifest the way it is published, with extra fields the
// parser has to ignore.
func (b *ManifestBuilder) BuildRaw() []byte {
	type wireVersion struct {
		ID          string `json:"id"`
		Type        string `json:"type"`
		URL         string `json:"url"`
		Time        string `json:"time"`
		ReleaseTime string `json:"releaseTime"`
	}
	type wireManifest struct {
		Latest   map[string]string `json:"latest"`
		Versions []wireVersion     `json:"versions"`
	}

	manifest := wireManifest{Latest: map[string]string{}, Versions: []wireVersion{}}
	for _, record := range b.records {
		manifest.Versions = append(manifest.Versions, wireVersion{
			ID:          record.ID,
			Type:        record.Kind,
			URL:         record.Locator,
			Time:        "2023-06-07T09:36:43+00:00",
			ReleaseTime: "2023-06-07T09:36:43+00:00",
		})
		if _, ok := manifest.Latest[record.Kind]; !ok {
			manifest.Latest[record.Kind] = record.ID
		}
	}

	raw, err := json.Marshal(manifest)
	if err != nil {
		panic(err)
	}
	return raw
}

// BuildSnapshot creates the snapshot with a concrete return type.
func (b *ManifestBuilder) BuildSnapshot() entities.ManifestSnapshot {
	records := make([]entities.VersionRecord, len(b.records))
	copy(records, b.records)
	return entities.ManifestSnapshot{
		Records:    records,
		Raw:        b.BuildRaw(),
		Provenance: b.provenance,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ManifestBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.records = nil
	b.provenance = "https://launchermeta.example/version_manifest_v2.json"
	return b
}

// Clone creates a deep copy of the ManifestBuilder.
func (b *ManifestBuilder) Clone() testkit.Builder {
	records := make([]entities.VersionRecord, len(b.records))
	copy(records, b.records)
	return &ManifestBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		records:     records,
		provenance:  b.provenance,
	}
}
