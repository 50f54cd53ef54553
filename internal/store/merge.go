package store

import (
	"context"
	"fmt"
)

// MergeArtist folds one duplicate artist into a survivor inside a single
// transaction: votes, notes and set links are re-pointed (deduplicated where
// a unique key would collide), missing survivor fields are backfilled from
// the duplicate, genre links are unioned, and the duplicate row is deleted.
// Nothing is dropped silently: only references the survivor already holds
// are discarded.
func (s *Store) MergeArtist(ctx context.Context, survivorID, duplicateID int64) error {
	if survivorID == duplicateID {
		return fmt.Errorf("artist %d cannot be merged into itself", survivorID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	// A user who voted for both keeps exactly one vote on the survivor.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM votes v
		WHERE v.artist_id = $2
		  AND EXISTS (
			SELECT 1 FROM votes sv
			WHERE sv.artist_id = $1 AND sv.user_id = v.user_id
		  )
	`, survivorID, duplicateID); err != nil {
		return fmt.Errorf("dedupe votes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE votes SET artist_id = $1 WHERE artist_id = $2
	`, survivorID, duplicateID); err != nil {
		return fmt.Errorf("transfer votes: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE artist_notes SET artist_id = $1 WHERE artist_id = $2
	`, survivorID, duplicateID); err != nil {
		return fmt.Errorf("transfer notes: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM set_artists sa
		WHERE sa.artist_id = $2
		  AND EXISTS (
			SELECT 1 FROM set_artists ss
			WHERE ss.artist_id = $1 AND ss.set_id = sa.set_id
		  )
	`, survivorID, duplicateID); err != nil {
		return fmt.Errorf("dedupe set links: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE set_artists SET artist_id = $1 WHERE artist_id = $2
	`, survivorID, duplicateID); err != nil {
		return fmt.Errorf("transfer set links: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO artist_genres (artist_id, genre_id)
		SELECT $1, genre_id FROM artist_genres WHERE artist_id = $2
		ON CONFLICT DO NOTHING
	`, survivorID, duplicateID); err != nil {
		return fmt.Errorf("union genre links: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM artist_genres WHERE artist_id = $1
	`, duplicateID); err != nil {
		return fmt.Errorf("clear duplicate genre links: %w", err)
	}

	// Backfill survivor fields that are still NULL from the duplicate.
	if _, err := tx.ExecContext(ctx, `
		UPDATE artists s
		SET description = COALESCE(s.description, d.description),
		    spotify_url = COALESCE(s.spotify_url, d.spotify_url),
		    soundcloud_url = COALESCE(s.soundcloud_url, d.soundcloud_url),
		    updated_at = now()
		FROM artists d
		WHERE s.id = $1 AND d.id = $2
	`, survivorID, duplicateID); err != nil {
		return fmt.Errorf("backfill survivor: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM artists WHERE id = $1
	`, duplicateID); err != nil {
		return fmt.Errorf("delete duplicate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}
