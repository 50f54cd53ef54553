package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"
)

// DuplicateGroup collects catalog artists that share the same trimmed,
// case-folded name.
type DuplicateGroup struct {
	Name    string   `json:"name"`
	Count   int      `json:"count"`
	Artists []Artist `json:"artists"`
}

// ListDuplicateGroups scans the catalog for artists with identical names.
// Each group's artists come back in id order with genre names and vote
// counts attached, which the merge executor needs for survivor selection.
func (s *Store) ListDuplicateGroups(ctx context.Context) ([]DuplicateGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT lower(trim(name)) AS folded, count(*)
		FROM artists
		GROUP BY folded
		HAVING count(*) > 1
		ORDER BY folded ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query duplicate names: %w", err)
	}
	defer rows.Close()

	var groups []DuplicateGroup
	for rows.Next() {
		var g DuplicateGroup
		if err := rows.Scan(&g.Name, &g.Count); err != nil {
			return nil, fmt.Errorf("scan duplicate group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate duplicate groups: %w", err)
	}

	for i := range groups {
		artists, err := s.artistsByFoldedName(ctx, groups[i].Name)
		if err != nil {
			return nil, err
		}
		groups[i].Artists = artists
	}

	return groups, nil
}

func (s *Store) artistsByFoldedName(ctx context.Context, folded string) ([]Artist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.name, a.slug,
		       COALESCE(a.description, ''), COALESCE(a.spotify_url, ''), COALESCE(a.soundcloud_url, ''),
		       a.created_at,
		       COALESCE(array_agg(g.name ORDER BY g.name) FILTER (WHERE g.name IS NOT NULL), '{}'),
		       COALESCE(v.vote_count, 0)
		FROM artists a
		LEFT JOIN artist_genres ag ON ag.artist_id = a.id
		LEFT JOIN genres g ON g.id = ag.genre_id
		LEFT JOIN (
			SELECT artist_id, count(*) AS vote_count
			FROM votes
			GROUP BY artist_id
		) v ON v.artist_id = a.id
		WHERE lower(trim(a.name)) = $1
		GROUP BY a.id, v.vote_count
		ORDER BY a.id ASC
	`, folded)
	if err != nil {
		return nil, fmt.Errorf("query duplicate artists: %w", err)
	}
	defer rows.Close()

	var artists []Artist
	for rows.Next() {
		var artist Artist
		if err := rows.Scan(
			&artist.ID, &artist.Name, &artist.Slug,
			&artist.Description, &artist.SpotifyURL, &artist.SoundcloudURL,
			&artist.CreatedAt, pq.Array(&artist.Genres), &artist.VoteCount,
		); err != nil {
			return nil, fmt.Errorf("scan duplicate artist: %w", err)
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate duplicate artists: %w", err)
	}

	return artists, nil
}
