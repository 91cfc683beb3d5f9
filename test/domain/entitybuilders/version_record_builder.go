//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// VersionRecordBuilder helps create test version records with a fluent interface.
type VersionRecordBuilder struct {
	*testkit.BaseBuilder
	id      string
	kind    string
	locator string
}

// NewVersionRecordBuilder creates a new version record builder with sensible defaults.
func NewVersionRecordBuilder() *VersionRecordBuilder {
	return &VersionRecordBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		id:          "1.20",
		kind:        "release",
		locator:     "https://piston-meta.example/v1/packages/1.20.json",
	}
}

// WithID sets the release identifier.
func (b *VersionRecordBuilder) WithID(id string) *VersionRecordBuilder {
	b.id = id
	return b
}

// WithKind sets the release channel.
func (b *VersionRecordBuilder) WithKind(kind string) *VersionRecordBuilder {
	b.kind = kind
	return b
}

// WithLocator sets the release detail URL.
func (b *VersionRecordBuilder) WithLocator(locator string) *VersionRecordBuilder {
	b.locator = locator
	return b
}

// Build creates the record (satisfies testkit.Builder interface).
func (b *VersionRecordBuilder) Build() interface{} {
	return b.BuildRecord()
}

// BuildRecord creates the record with a concrete return type.
func (b *VersionRecordBuilder) BuildRecord() entities.VersionRecord {
	return entities.VersionRecord{
		ID:      b.id,
		Kind:    b.kind,
		Locator: b.locator,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *VersionRecordBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.id = "1.20"
	b.kind = "release"
	b.locator = "https://piston-meta.example/v1/packages/1.20.json"
	return b
}

// Clone creates a deep copy of the VersionRecordBuilder.
func (b *VersionRecordBuilder) Clone() testkit.Builder {
	return &VersionRecordBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		id:          b.id,
		kind:        b.kind,
		locator:     b.locator,
	}
}

// Record is a shorthand for a record with the given identity and locator.
func Record(id, kind, locator string) entities.VersionRecord {
	return NewVersionRecordBuilder().WithID(id).WithKind(kind).WithLocator(locator).BuildRecord()
}
