package entities

import "sort"

// DetectChanges compares two manifest snapshots by record identity.
//
// A nil previous snapshot is the expected first-run state and yields NoPrevious.
// Otherwise the classification follows this priority:
//   - any removal yields RemovalsPresent, even alongside additions;
//   - exactly one addition yields SingleAddition;
//   - more than one addition yields MultipleAdditions;
//   - anything else is NoChange.
//
// The comparison is a set comparison: record order and duplicated identities in either
// snapshot do not affect the result. Added and Removed are sorted by identity.
func DetectChanges(previous *ManifestSnapshot, current ManifestSnapshot) ChangeResult {
	if previous == nil {
		return ChangeResult{
			Added:          []VersionRecord{},
			Removed:        []VersionRecord{},
			Classification: NoPrevious,
		}
	}

	previousSet := identitySet(previous.Records)
	currentSet := identitySet(current.Records)

	result := ChangeResult{
		Added:   difference(currentSet, previousSet),
		Removed: difference(previousSet, currentSet),
	}

	switch {
	case len(result.Removed) > 0:
		result.Classification = RemovalsPresent
	case len(result.Added) == 1:
		result.Classification = SingleAddition
	case len(result.Added) > 1:
		result.Classification = MultipleAdditions
	default:
		result.Classification = NoChange
	}
	return result
}

// identitySet indexes records by identity, keeping the first occurrence of duplicates.
func identitySet(records []VersionRecord) map[Identity]VersionRecord {
	set := make(map[Identity]VersionRecord, len(records))
	for _, record := range records {
		if _, seen := set[record.Identity()]; !seen {
			set[record.Identity()] = record
		}
	}
	return set
}

// difference returns the members of left whose identity is absent from right.
func difference(left, right map[Identity]VersionRecord) []VersionRecord {
	result := make([]VersionRecord, 0)
	for identity, record := range left {
		if _, ok := right[identity]; !ok {
			result = append(result, record)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ID != result[j].ID {
			return result[i].ID < result[j].ID
		}
		return result[i].Kind < result[j].Kind
	})
	return result
}
