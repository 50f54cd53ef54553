package lineup

import "strings"

// Candidate is an artist name extracted from import rows, not yet linked to
// a catalog entity. CSV rows carry no per-artist metadata, so the optional
// fields are only populated by other intake paths.
type Candidate struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	SpotifyURL    string   `json:"spotify_url,omitempty"`
	SoundcloudURL string   `json:"soundcloud_url,omitempty"`
	Genres        []string `json:"genres,omitempty"`
}

// ExtractArtistCandidates collects the unique artist names referenced by the
// given set rows, preserving first-seen order. Names repeated across rows
// collapse to a single candidate keyed by the exact trimmed name.
func ExtractArtistCandidates(rows []SetRow) []Candidate {
	seen := make(map[string]struct{})
	var candidates []Candidate

	for _, row := range rows {
		for _, name := range SplitArtistNames(row.ArtistNames) {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			candidates = append(candidates, Candidate{Name: name})
		}
	}

	return candidates
}

// SplitArtistNames splits a comma-separated artist list, trimming each entry
// and dropping empties.
func SplitArtistNames(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
