package entities

import (
	"encoding/json"
)

// VersionRecord represents one published release listed in a version manifest.
type VersionRecord struct {
	ID      string // Release identifier (e.g. "1.20.1")
	Kind    string // Release channel (e.g. "release", "snapshot")
	Locator string // URL pointing to the release detail document
}

// Identity is the composite key deciding whether two records refer to the same release.
// The locator is not part of it, so a corrected URL is not a new release.
type Identity struct {
	ID   string
	Kind string
}

// String renders the identity in the "id@kind" form used by diagnostics.
func (i Identity) String() string {
	return i.ID + "@" + i.Kind
}

// Identity returns the record identity.
func (r VersionRecord) Identity() Identity {
	return Identity{ID: r.ID, Kind: r.Kind}
}

// wireRecord accepts both the published field names and their long aliases.
type wireRecord struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	URL     string `json:"url"`
	Locator string `json:"locator"`
}

// UnmarshalJSON decodes a manifest entry, ignoring unknown fields.
func (r *VersionRecord) UnmarshalJSON(data []byte) error {
	var wire wireRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	r.ID = wire.ID
	r.Kind = wire.Type
	if r.Kind == "" {
		r.Kind = wire.Kind
	}
	r.Locator = wire.URL
	if r.Locator == "" {
		r.Locator = wire.Locator
	}
	return nil
}

// MarshalJSON encodes the record with the published field names.
func (r VersionRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		URL  string `json:"url"`
	}{ID: r.ID, Type: r.Kind, URL: r.Locator})
}
