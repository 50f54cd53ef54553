// Package merges implements bulk merging of duplicate catalog artists: one
// survivor per group is selected by strategy, references are transferred,
// missing fields backfilled, and duplicates deleted.
package merges

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"lineupboard/internal/lineup"
	"lineupboard/internal/store"
)

// Catalog captures the store operations the merge executor needs.
type Catalog interface {
	ListDuplicateGroups(ctx context.Context) ([]store.DuplicateGroup, error)
	MergeArtist(ctx context.Context, survivorID, duplicateID int64) error
}

// Progress is emitted after every processed group.
type Progress struct {
	Completed int      `json:"completed"`
	Total     int      `json:"total"`
	Current   string   `json:"current"`
	Errors    []string `json:"errors,omitempty"`
}

// ProgressFunc receives synchronous per-group progress updates.
type ProgressFunc func(Progress)

// Service executes duplicate-artist merges.
type Service struct {
	catalog Catalog
	log     zerolog.Logger
}

// New constructs a merge Service.
func New(catalog Catalog, log zerolog.Logger) *Service {
	return &Service{catalog: catalog, log: log}
}

// DuplicateGroups lists the catalog's same-name artist groups.
func (s *Service) DuplicateGroups(ctx context.Context) ([]store.DuplicateGroup, error) {
	return s.catalog.ListDuplicateGroups(ctx)
}

// MergeDuplicateGroups merges each group into one survivor chosen by the
// strategy. Groups run strictly in order; reference transfer and deletion
// for a group finish before the next group starts, which keeps per-survivor
// vote deduplication correct. A failed group is recorded and the batch
// continues.
func (s *Service) MergeDuplicateGroups(ctx context.Context, groups []store.DuplicateGroup, strategy lineup.MergeStrategy, onProgress ProgressFunc) []string {
	var errs []string

	for i, group := range groups {
		if err := s.mergeGroup(ctx, group, strategy); err != nil {
			s.log.Warn().Err(err).Str("group", group.Name).Msg("group merge failed")
			errs = append(errs, fmt.Sprintf("group %q: %v", group.Name, err))
		}

		if onProgress != nil {
			onProgress(Progress{Completed: i + 1, Total: len(groups), Current: group.Name, Errors: errs})
		}
	}

	return errs
}

func (s *Service) mergeGroup(ctx context.Context, group store.DuplicateGroup, strategy lineup.MergeStrategy) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(group.Artists) < 2 {
		return fmt.Errorf("needs at least two artists, got %d", len(group.Artists))
	}

	survivor, err := selectSurvivor(group.Artists, strategy)
	if err != nil {
		return err
	}

	for _, artist := range group.Artists {
		if artist.ID == survivor.ID {
			continue
		}
		if err := s.catalog.MergeArtist(ctx, survivor.ID, artist.ID); err != nil {
			return fmt.Errorf("merge artist %d into %d: %w", artist.ID, survivor.ID, err)
		}
	}

	s.log.Info().
		Str("group", group.Name).
		Int64("survivor", survivor.ID).
		Int("merged", len(group.Artists)-1).
		Msg("merged duplicate group")
	return nil
}

// selectSurvivor picks the artist kept after the merge. smart favours the
// most complete profile with vote activity as tiebreak; newest/oldest go by
// creation time; first keeps the group's existing order.
func selectSurvivor(artists []store.Artist, strategy lineup.MergeStrategy) (store.Artist, error) {
	survivor := artists[0]

	switch strategy {
	case lineup.MergeFirst:
		// keep positional first
	case lineup.MergeNewest:
		for _, a := range artists[1:] {
			if a.CreatedAt.After(survivor.CreatedAt) {
				survivor = a
			}
		}
	case lineup.MergeOldest:
		for _, a := range artists[1:] {
			if a.CreatedAt.Before(survivor.CreatedAt) {
				survivor = a
			}
		}
	case lineup.MergeSmart:
		for _, a := range artists[1:] {
			as, ss := completeness(a), completeness(survivor)
			if as > ss || (as == ss && a.VoteCount > survivor.VoteCount) {
				survivor = a
			}
		}
	default:
		return store.Artist{}, fmt.Errorf("unknown merge strategy %q", strategy)
	}

	return survivor, nil
}

// completeness counts the populated profile fields and genre links.
func completeness(a store.Artist) int {
	score := len(a.Genres)
	if a.Description != "" {
		score++
	}
	if a.SpotifyURL != "" {
		score++
	}
	if a.SoundcloudURL != "" {
		score++
	}
	return score
}
