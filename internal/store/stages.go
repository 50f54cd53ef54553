package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrStageNotFound signals that a stage name did not match for an edition.
var ErrStageNotFound = errors.New("stage not found")

// Stage is a performance area within one festival edition.
type Stage struct {
	ID        int64  `json:"id"`
	EditionID int64  `json:"edition_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
}

// UpsertStage creates or updates a stage by its (edition, name) natural key.
// An existing row is updated, never ignored, so re-imports refresh casing and
// slug. Returns the stage and whether it was newly created.
func (s *Store) UpsertStage(ctx context.Context, editionID int64, name string) (Stage, bool, error) {
	stage := Stage{EditionID: editionID, Name: name, Slug: Slugify(name)}

	err := s.db.QueryRowContext(ctx, `
		SELECT id
		FROM stages
		WHERE edition_id = $1 AND lower(trim(name)) = lower(trim($2))
	`, editionID, name).Scan(&stage.ID)
	switch {
	case err == nil:
		if _, err := s.db.ExecContext(ctx, `
			UPDATE stages
			SET name = $2, slug = $3, updated_at = now()
			WHERE id = $1
		`, stage.ID, name, stage.Slug); err != nil {
			return Stage{}, false, fmt.Errorf("update stage: %w", err)
		}
		return stage, false, nil
	case errors.Is(err, sql.ErrNoRows):
		err = s.db.QueryRowContext(ctx, `
			INSERT INTO stages (edition_id, name, slug)
			VALUES ($1, $2, $3)
			RETURNING id
		`, editionID, name, stage.Slug).Scan(&stage.ID)
		if err != nil {
			return Stage{}, false, fmt.Errorf("insert stage: %w", err)
		}
		return stage, true, nil
	default:
		return Stage{}, false, fmt.Errorf("lookup stage: %w", err)
	}
}

// GetStageByName resolves a stage by its (edition, name) natural key.
func (s *Store) GetStageByName(ctx context.Context, editionID int64, name string) (Stage, error) {
	stage := Stage{EditionID: editionID}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, slug
		FROM stages
		WHERE edition_id = $1 AND lower(trim(name)) = lower(trim($2))
	`, editionID, name).Scan(&stage.ID, &stage.Name, &stage.Slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Stage{}, ErrStageNotFound
		}
		return Stage{}, fmt.Errorf("lookup stage: %w", err)
	}
	return stage, nil
}
