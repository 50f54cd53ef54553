package lineup

import (
	"fmt"
	"sort"
)

// ResolutionKind discriminates the resolution variants for a conflicted
// candidate.
type ResolutionKind string

const (
	// ResolutionSkip drops the candidate entirely.
	ResolutionSkip ResolutionKind = "skip"
	// ResolutionImportNew creates a fresh catalog artist, optionally renamed.
	ResolutionImportNew ResolutionKind = "import_new"
	// ResolutionMerge reuses an existing catalog artist as the target.
	ResolutionMerge ResolutionKind = "merge"
)

// MergeStrategy selects the survivor when merging duplicate artists.
type MergeStrategy string

const (
	MergeSmart  MergeStrategy = "smart"
	MergeFirst  MergeStrategy = "first"
	MergeNewest MergeStrategy = "newest"
	MergeOldest MergeStrategy = "oldest"
)

// ParseMergeStrategy validates a strategy received over the wire.
func ParseMergeStrategy(s string) (MergeStrategy, error) {
	switch MergeStrategy(s) {
	case MergeSmart, MergeFirst, MergeNewest, MergeOldest:
		return MergeStrategy(s), nil
	}
	return "", fmt.Errorf("unknown merge strategy %q", s)
}

// Resolution is the decision applied to one conflicted candidate. Kind
// determines which of the remaining fields are meaningful.
type Resolution struct {
	Kind           ResolutionKind `json:"kind"`
	Rename         string         `json:"rename,omitempty"`
	TargetArtistID int64          `json:"target_artist_id,omitempty"`
	Strategy       MergeStrategy  `json:"strategy,omitempty"`
}

// ResolutionSet holds the per-conflict decisions for one import session.
// Conflicts with exactly one match are proactively defaulted to a merge with
// that match at construction; the default stands unless explicitly changed.
type ResolutionSet struct {
	conflicts []Conflict
	decisions map[int]Resolution
}

// NewResolutionSet seeds decisions for the given conflicts.
func NewResolutionSet(conflicts []Conflict) *ResolutionSet {
	s := &ResolutionSet{
		conflicts: conflicts,
		decisions: make(map[int]Resolution),
	}
	for i, c := range conflicts {
		if len(c.Matches) == 1 {
			s.decisions[i] = Resolution{
				Kind:           ResolutionMerge,
				TargetArtistID: c.Matches[0].ID,
			}
		}
	}
	return s
}

// Get returns the current decision for a conflict index, if any.
func (s *ResolutionSet) Get(index int) (Resolution, bool) {
	r, ok := s.decisions[index]
	return r, ok
}

// Set overwrites the decision for a single conflict.
func (s *ResolutionSet) Set(index int, r Resolution) error {
	if index < 0 || index >= len(s.conflicts) {
		return fmt.Errorf("conflict index %d out of range", index)
	}
	if err := s.validate(index, r); err != nil {
		return err
	}
	s.decisions[index] = r
	return nil
}

// ApplyBulk sets the given resolution on every conflict that has no decision
// yet. Existing decisions, including seeded defaults, are never overwritten.
func (s *ResolutionSet) ApplyBulk(r Resolution) error {
	for i := range s.conflicts {
		if _, ok := s.decisions[i]; ok {
			continue
		}
		if err := s.validate(i, r); err != nil {
			return err
		}
		s.decisions[i] = r
	}
	return nil
}

// ApplyBulkMerge resolves every undecided conflict as a merge with its first
// match, tagged with the chosen strategy. Every such conflict must have at
// least one match.
func (s *ResolutionSet) ApplyBulkMerge(strategy MergeStrategy) error {
	for i, c := range s.conflicts {
		if _, ok := s.decisions[i]; ok {
			continue
		}
		if len(c.Matches) == 0 {
			return fmt.Errorf("conflict %d (%s) has no match to merge with", i, c.Candidate.Name)
		}
		s.decisions[i] = Resolution{
			Kind:           ResolutionMerge,
			TargetArtistID: c.Matches[0].ID,
			Strategy:       strategy,
		}
	}
	return nil
}

// UnresolvedCount reports how many conflicts still lack a decision.
func (s *ResolutionSet) UnresolvedCount() int {
	return len(s.conflicts) - len(s.decisions)
}

// Resolved reports whether a commit may proceed.
func (s *ResolutionSet) Resolved() bool {
	return s.UnresolvedCount() == 0
}

// Conflicts returns the conflicts this set was built from.
func (s *ResolutionSet) Conflicts() []Conflict {
	return s.conflicts
}

// Decisions returns a copy of the current decisions keyed by conflict index.
func (s *ResolutionSet) Decisions() map[int]Resolution {
	out := make(map[int]Resolution, len(s.decisions))
	for i, r := range s.decisions {
		out[i] = r
	}
	return out
}

// Indices returns the decided conflict indices in ascending order.
func (s *ResolutionSet) Indices() []int {
	out := make([]int, 0, len(s.decisions))
	for i := range s.decisions {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// validate enforces the variant invariants: a merge target must be one of the
// conflict's own matches.
func (s *ResolutionSet) validate(index int, r Resolution) error {
	switch r.Kind {
	case ResolutionSkip, ResolutionImportNew:
		return nil
	case ResolutionMerge:
		for _, m := range s.conflicts[index].Matches {
			if m.ID == r.TargetArtistID {
				return nil
			}
		}
		return fmt.Errorf("artist %d is not a match for conflict %d", r.TargetArtistID, index)
	default:
		return fmt.Errorf("unknown resolution kind %q", r.Kind)
	}
}
