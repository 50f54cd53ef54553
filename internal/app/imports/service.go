// Package imports implements the bulk lineup import pipeline: artist
// resolution from conflict decisions, stage and set upserts by natural key,
// and per-row progress reporting.
package imports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lineupboard/internal/auth"
	"lineupboard/internal/lineup"
	"lineupboard/internal/store"
)

// Catalog captures the store operations the import pipeline needs.
type Catalog interface {
	ListArtists(ctx context.Context) ([]store.Artist, error)
	GetArtistByName(ctx context.Context, name string) (store.Artist, error)
	CreateArtist(ctx context.Context, artist store.Artist) (int64, error)
	UpsertStage(ctx context.Context, editionID int64, name string) (store.Stage, bool, error)
	GetStageByName(ctx context.Context, editionID int64, name string) (store.Stage, error)
	FindSet(ctx context.Context, editionID int64, name string, stageID *int64) (store.Set, error)
	CreateSet(ctx context.Context, set store.Set) (int64, error)
	UpdateSetSchedule(ctx context.Context, id int64, timeStart, timeEnd *time.Time, description string) error
	LinkSetArtist(ctx context.Context, setID, artistID int64) error
}

// Progress is emitted after every processed row.
type Progress struct {
	Completed int      `json:"completed"`
	Total     int      `json:"total"`
	Current   string   `json:"current"`
	Errors    []string `json:"errors,omitempty"`
}

// ProgressFunc receives synchronous per-row progress updates.
type ProgressFunc func(Progress)

// Result summarises one import batch. Success is false only when zero rows
// succeeded among the attempted rows.
type Result struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Inserted int      `json:"inserted"`
	Errors   []string `json:"errors,omitempty"`
}

// Service runs lineup imports against the catalog.
type Service struct {
	catalog Catalog
	log     zerolog.Logger
}

// New constructs an import Service.
func New(catalog Catalog, log zerolog.Logger) *Service {
	return &Service{catalog: catalog, log: log}
}

// ImportStages upserts one stage per row by its (name, edition) natural key.
// Rows run strictly in order; a failed row is recorded and the batch
// continues.
func (s *Service) ImportStages(ctx context.Context, rows []lineup.StageRow, editionID int64, onProgress ProgressFunc) (Result, error) {
	var (
		inserted int
		errs     []string
	)

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return batchResult(inserted, len(rows), errs), err
		}

		name := strings.TrimSpace(row.Name)
		if name == "" {
			errs = append(errs, fmt.Sprintf("row %d: stage name is required", i+1))
		} else if _, _, err := s.catalog.UpsertStage(ctx, editionID, name); err != nil {
			errs = append(errs, fmt.Sprintf("row %d (%s): %v", i+1, name, err))
		} else {
			inserted++
		}

		report(onProgress, Progress{Completed: i + 1, Total: len(rows), Current: name, Errors: errs})
	}

	return batchResult(inserted, len(rows), errs), nil
}

// ImportSets imports set rows resolving artists by exact catalog name only.
// Names the catalog does not know become row-level errors; nothing is
// created implicitly.
func (s *Service) ImportSets(ctx context.Context, rows []lineup.SetRow, editionID int64, timezone string, onProgress ProgressFunc) (Result, error) {
	return s.importSetRows(ctx, rows, editionID, nil, timezone, onProgress)
}

// ImportSetsWithResolutions imports set rows after a conflict-resolution
// pass: conflicted candidates follow their resolutions, clean candidates are
// always created as new artists, and the resulting name→id map drives row
// imports.
func (s *Service) ImportSetsWithResolutions(
	ctx context.Context,
	rows []lineup.SetRow,
	editionID int64,
	resolutions map[int]lineup.Resolution,
	conflicts []lineup.Conflict,
	clean []lineup.Candidate,
	timezone string,
	onProgress ProgressFunc,
) (Result, error) {
	ids, err := s.resolveArtists(ctx, resolutions, conflicts, clean)
	if err != nil {
		return Result{Message: err.Error()}, err
	}
	return s.importSetRows(ctx, rows, editionID, ids, timezone, onProgress)
}

// resolveArtists turns resolutions plus clean candidates into a folded
// name→id map. Candidates that fail to resolve are logged, not fatal; their
// rows surface errors during import.
func (s *Service) resolveArtists(ctx context.Context, resolutions map[int]lineup.Resolution, conflicts []lineup.Conflict, clean []lineup.Candidate) (map[string]int64, error) {
	ids := make(map[string]int64, len(conflicts)+len(clean))

	for i, conflict := range conflicts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resolution, ok := resolutions[i]
		if !ok {
			return nil, fmt.Errorf("conflict %d (%s) has no resolution", i, conflict.Candidate.Name)
		}

		switch resolution.Kind {
		case lineup.ResolutionSkip:
			s.log.Info().Str("artist", conflict.Candidate.Name).Msg("skipping conflicted artist")
		case lineup.ResolutionImportNew:
			artist := candidateArtist(conflict.Candidate)
			if resolution.Rename != "" {
				artist.Name = resolution.Rename
			}
			id, err := s.catalog.CreateArtist(ctx, artist)
			if err != nil {
				s.log.Warn().Err(err).Str("artist", artist.Name).Msg("failed to create artist")
				continue
			}
			ids[foldName(conflict.Candidate.Name)] = id
		case lineup.ResolutionMerge:
			// No artist-row mutation here; field reconciliation belongs to
			// the explicit merge flows.
			ids[foldName(conflict.Candidate.Name)] = resolution.TargetArtistID
		default:
			return nil, fmt.Errorf("conflict %d (%s): unknown resolution kind %q", i, conflict.Candidate.Name, resolution.Kind)
		}
	}

	for _, candidate := range clean {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id, err := s.catalog.CreateArtist(ctx, candidateArtist(candidate))
		if err != nil {
			s.log.Warn().Err(err).Str("artist", candidate.Name).Msg("failed to create artist")
			continue
		}
		ids[foldName(candidate.Name)] = id
	}

	return ids, nil
}

// importSetRows commits set rows one at a time, in order. Natural-key
// upserts for colliding stage/set names must not interleave, so there is no
// row concurrency.
func (s *Service) importSetRows(ctx context.Context, rows []lineup.SetRow, editionID int64, ids map[string]int64, timezone string, onProgress ProgressFunc) (Result, error) {
	var (
		inserted int
		errs     []string
	)

	creator := creatorID(ctx)

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return batchResult(inserted, len(rows), errs), err
		}

		name, rowErrs, ok := s.importSetRow(ctx, row, i+1, editionID, ids, timezone, creator)
		errs = append(errs, rowErrs...)
		if ok {
			inserted++
		}

		report(onProgress, Progress{Completed: i + 1, Total: len(rows), Current: name, Errors: errs})
	}

	return batchResult(inserted, len(rows), errs), nil
}

func (s *Service) importSetRow(ctx context.Context, row lineup.SetRow, rowNum int, editionID int64, ids map[string]int64, timezone string, creator *int64) (string, []string, bool) {
	var errs []string

	names := lineup.SplitArtistNames(row.ArtistNames)
	if len(names) == 0 {
		return row.Name, append(errs, fmt.Sprintf("row %d: no artist names", rowNum)), false
	}

	var artistIDs []int64
	for _, artistName := range names {
		if id, ok := ids[foldName(artistName)]; ok {
			artistIDs = append(artistIDs, id)
			continue
		}
		artist, err := s.catalog.GetArtistByName(ctx, artistName)
		if err != nil {
			if errors.Is(err, store.ErrArtistNotFound) {
				errs = append(errs, fmt.Sprintf("row %d: unresolved artist %q", rowNum, artistName))
			} else {
				errs = append(errs, fmt.Sprintf("row %d: lookup artist %q: %v", rowNum, artistName, err))
			}
			continue
		}
		artistIDs = append(artistIDs, artist.ID)
	}

	name := strings.TrimSpace(row.Name)
	if name == "" {
		name = lineup.DeriveSetName(names)
	}

	if len(artistIDs) == 0 {
		return name, append(errs, fmt.Sprintf("row %d (%s): no resolvable artists, row skipped", rowNum, name)), false
	}

	var stageID *int64
	if stageName := strings.TrimSpace(row.StageName); stageName != "" {
		stage, err := s.catalog.GetStageByName(ctx, editionID, stageName)
		if err != nil {
			return name, append(errs, fmt.Sprintf("row %d (%s): stage %q not found", rowNum, name, stageName)), false
		}
		stageID = &stage.ID
	}

	timeStart, err := LocalTimeToUTC(row.TimeStart, timezone)
	if err != nil {
		errs = append(errs, fmt.Sprintf("row %d (%s): time_start: %v", rowNum, name, err))
	}
	timeEnd, err := LocalTimeToUTC(row.TimeEnd, timezone)
	if err != nil {
		errs = append(errs, fmt.Sprintf("row %d (%s): time_end: %v", rowNum, name, err))
	}

	set, err := s.catalog.FindSet(ctx, editionID, name, stageID)
	switch {
	case err == nil:
		if err := s.catalog.UpdateSetSchedule(ctx, set.ID, timeStart, timeEnd, row.Description); err != nil {
			return name, append(errs, fmt.Sprintf("row %d (%s): %v", rowNum, name, err)), false
		}
	case errors.Is(err, store.ErrSetNotFound):
		set = store.Set{
			EditionID:   editionID,
			StageID:     stageID,
			Name:        name,
			Description: row.Description,
			TimeStart:   timeStart,
			TimeEnd:     timeEnd,
			CreatedBy:   creator,
		}
		set.ID, err = s.catalog.CreateSet(ctx, set)
		if err != nil {
			return name, append(errs, fmt.Sprintf("row %d (%s): %v", rowNum, name, err)), false
		}
	default:
		return name, append(errs, fmt.Sprintf("row %d (%s): %v", rowNum, name, err)), false
	}

	for _, artistID := range artistIDs {
		if err := s.catalog.LinkSetArtist(ctx, set.ID, artistID); err != nil {
			errs = append(errs, fmt.Sprintf("row %d (%s): link artist %d: %v", rowNum, name, artistID, err))
		}
	}

	return name, errs, true
}

func candidateArtist(c lineup.Candidate) store.Artist {
	return store.Artist{
		Name:          c.Name,
		Description:   c.Description,
		SpotifyURL:    c.SpotifyURL,
		SoundcloudURL: c.SoundcloudURL,
		Genres:        c.Genres,
	}
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func creatorID(ctx context.Context) *int64 {
	if id, ok := auth.UserID(ctx); ok {
		return &id
	}
	return nil
}

func report(onProgress ProgressFunc, p Progress) {
	if onProgress != nil {
		onProgress(p)
	}
}

func batchResult(inserted, attempted int, errs []string) Result {
	result := Result{
		Inserted: inserted,
		Errors:   errs,
		Success:  inserted > 0 || attempted == 0,
	}
	switch {
	case attempted == 0:
		result.Message = "nothing to import"
	case len(errs) == 0:
		result.Message = fmt.Sprintf("imported %d of %d rows", inserted, attempted)
	case result.Success:
		result.Message = fmt.Sprintf("imported %d of %d rows with %d errors", inserted, attempted, len(errs))
	default:
		result.Message = fmt.Sprintf("import failed: all %d rows errored", attempted)
	}
	return result
}
