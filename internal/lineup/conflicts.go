package lineup

import (
	"strings"

	"lineupboard/internal/store"
)

// Conflict pairs a candidate with every catalog artist it plausibly
// duplicates. Matches keep catalog iteration order; they are not ranked.
type Conflict struct {
	Candidate Candidate      `json:"candidate"`
	Matches   []store.Artist `json:"matches"`
}

// DetectConflicts scans the full catalog for each candidate and partitions
// the input into conflicted and clean candidates. The scan is pure and
// performs no writes. It is O(candidates × catalog × name length²) and is
// meant for operator-triggered batch use, not large catalogs.
func DetectConflicts(candidates []Candidate, catalog []store.Artist) (conflicts []Conflict, clean []Candidate) {
	for _, candidate := range candidates {
		var matches []store.Artist
		for _, artist := range catalog {
			if matchesArtist(candidate, artist) {
				matches = append(matches, artist)
			}
		}
		if len(matches) > 0 {
			conflicts = append(conflicts, Conflict{Candidate: candidate, Matches: matches})
		} else {
			clean = append(clean, candidate)
		}
	}
	return conflicts, clean
}

func matchesArtist(c Candidate, a store.Artist) bool {
	if strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(a.Name)) {
		return true
	}
	if Similarity(c.Name, a.Name) > similarityThreshold {
		return true
	}
	if c.SpotifyURL != "" && c.SpotifyURL == a.SpotifyURL {
		return true
	}
	if c.SoundcloudURL != "" && c.SoundcloudURL == a.SoundcloudURL {
		return true
	}
	return false
}
