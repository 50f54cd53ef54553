package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrSetNotFound signals a natural-key lookup miss.
var ErrSetNotFound = errors.New("set not found")

// Set is a scheduled performance within one edition. StageID and the times
// are optional; Archived marks sets removed from the published lineup.
type Set struct {
	ID          int64      `json:"id"`
	EditionID   int64      `json:"edition_id"`
	StageID     *int64     `json:"stage_id,omitempty"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	TimeStart   *time.Time `json:"time_start,omitempty"`
	TimeEnd     *time.Time `json:"time_end,omitempty"`
	Archived    bool       `json:"archived"`
	CreatedBy   *int64     `json:"created_by,omitempty"`
}

// FindSet resolves a set by its (edition, name, stage) natural key. A nil
// stage only matches sets without a stage.
func (s *Store) FindSet(ctx context.Context, editionID int64, name string, stageID *int64) (Set, error) {
	set := Set{EditionID: editionID}
	var description sql.NullString
	var stage sql.NullInt64
	var createdBy sql.NullInt64

	err := s.db.QueryRowContext(ctx, `
		SELECT id, stage_id, name, slug, description, time_start, time_end, archived, created_by
		FROM sets
		WHERE edition_id = $1
		  AND lower(trim(name)) = lower(trim($2))
		  AND (stage_id = $3 OR ($3::bigint IS NULL AND stage_id IS NULL))
	`, editionID, name, stageID).Scan(
		&set.ID, &stage, &set.Name, &set.Slug, &description,
		&set.TimeStart, &set.TimeEnd, &set.Archived, &createdBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Set{}, ErrSetNotFound
		}
		return Set{}, fmt.Errorf("lookup set: %w", err)
	}

	set.Description = description.String
	if stage.Valid {
		set.StageID = &stage.Int64
	}
	if createdBy.Valid {
		set.CreatedBy = &createdBy.Int64
	}
	return set, nil
}

// CreateSet inserts a new set and returns its id.
func (s *Store) CreateSet(ctx context.Context, set Set) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sets (edition_id, stage_id, name, slug, description, time_start, time_end, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, set.EditionID, set.StageID, set.Name, Slugify(set.Name),
		nullIfEmpty(set.Description), set.TimeStart, set.TimeEnd, set.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert set: %w", err)
	}
	return id, nil
}

// UpdateSetSchedule refreshes times and description on a re-imported set and
// clears any archived flag so the set rejoins the published lineup.
func (s *Store) UpdateSetSchedule(ctx context.Context, id int64, timeStart, timeEnd *time.Time, description string) error {
	if _, err := s.db.ExecContext(ctx, `
		UPDATE sets
		SET time_start = $2, time_end = $3, description = $4, archived = FALSE, updated_at = now()
		WHERE id = $1
	`, id, timeStart, timeEnd, nullIfEmpty(description)); err != nil {
		return fmt.Errorf("update set: %w", err)
	}
	return nil
}

// LinkSetArtist attaches an artist to a set. Duplicate links are ignored so
// re-imports stay idempotent.
func (s *Store) LinkSetArtist(ctx context.Context, setID, artistID int64) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO set_artists (set_id, artist_id)
		VALUES ($1, $2)
		ON CONFLICT (set_id, artist_id) DO NOTHING
	`, setID, artistID); err != nil {
		return fmt.Errorf("link set artist: %w", err)
	}
	return nil
}
