package entities

import "strings"

// Classification resolves the outcome of a manifest comparison into a single signal.
type Classification int

const (
	NoPrevious Classification = iota
	NoChange
	SingleAddition
	MultipleAdditions
	RemovalsPresent
)

func (c Classification) String() string {
	switch c {
	case NoPrevious:
		return "no-previous"
	case NoChange:
		return "no-change"
	case SingleAddition:
		return "single-addition"
	case MultipleAdditions:
		return "multiple-additions"
	case RemovalsPresent:
		return "removals-present"
	default:
		return "unknown"
	}
}

// ChangeResult is the transient output of DetectChanges.
type ChangeResult struct {
	Added          []VersionRecord
	Removed        []VersionRecord
	Classification Classification
}

// ReleaseOutput is the structured output published once per run.
type ReleaseOutput struct {
	ID             string
	Kind           string
	Locator        string
	Classification Classification
	AddedCount     int
	RemovedCount   int
}

// Output builds the published values. Only a single addition carries a release.
func (r ChangeResult) Output() ReleaseOutput {
	output := ReleaseOutput{
		Classification: r.Classification,
		AddedCount:     len(r.Added),
		RemovedCount:   len(r.Removed),
	}
	if r.Classification == SingleAddition {
		output.ID = r.Added[0].ID
		output.Kind = r.Added[0].Kind
		output.Locator = r.Added[0].Locator
	}
	return output
}

// Ambiguous reports whether the result must be surfaced as a warning.
func (r ChangeResult) Ambiguous() bool {
	return r.Classification == MultipleAdditions || r.Classification == RemovalsPresent
}

// JoinIdentities renders records as a comma separated "id@kind" list.
func JoinIdentities(records []VersionRecord) string {
	parts := make([]string, 0, len(records))
	for _, record := range records {
		parts = append(parts, record.Identity().String())
	}
	return strings.Join(parts, ", ")
}
