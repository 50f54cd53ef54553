package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// ErrArtistNotFound signals an exact-name lookup miss.
var ErrArtistNotFound = errors.New("artist not found")

// Artist is a catalogued performer. Optional text columns come back as empty
// strings; Genres holds the linked genre names.
type Artist struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description,omitempty"`
	SpotifyURL    string    `json:"spotify_url,omitempty"`
	SoundcloudURL string    `json:"soundcloud_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	Genres        []string  `json:"genres,omitempty"`
	VoteCount     int       `json:"vote_count,omitempty"`
}

const artistColumns = `
	a.id, a.name, a.slug,
	COALESCE(a.description, ''), COALESCE(a.spotify_url, ''), COALESCE(a.soundcloud_url, ''),
	a.created_at,
	COALESCE(array_agg(g.name ORDER BY g.name) FILTER (WHERE g.name IS NOT NULL), '{}')`

// ListArtists returns the full catalog with genre names attached. The import
// conflict scan reads the whole table by design.
func (s *Store) ListArtists(ctx context.Context) ([]Artist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT`+artistColumns+`
		FROM artists a
		LEFT JOIN artist_genres ag ON ag.artist_id = a.id
		LEFT JOIN genres g ON g.id = ag.genre_id
		GROUP BY a.id
		ORDER BY a.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query artists: %w", err)
	}
	defer rows.Close()

	var artists []Artist
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artists: %w", err)
	}

	return artists, nil
}

// GetArtistByName looks up an artist by exact name, case-insensitively.
func (s *Store) GetArtistByName(ctx context.Context, name string) (Artist, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT`+artistColumns+`
		FROM artists a
		LEFT JOIN artist_genres ag ON ag.artist_id = a.id
		LEFT JOIN genres g ON g.id = ag.genre_id
		WHERE lower(trim(a.name)) = lower(trim($1))
		GROUP BY a.id
		LIMIT 1
	`, name)

	artist, err := scanArtist(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Artist{}, ErrArtistNotFound
		}
		return Artist{}, err
	}
	return artist, nil
}

// CreateArtist inserts a new catalog artist and returns its id. Genre links
// are created on the fly, reusing existing genre rows by name.
func (s *Store) CreateArtist(ctx context.Context, artist Artist) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO artists (name, slug, description, spotify_url, soundcloud_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, artist.Name, Slugify(artist.Name),
		nullIfEmpty(artist.Description), nullIfEmpty(artist.SpotifyURL), nullIfEmpty(artist.SoundcloudURL),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert artist: %w", err)
	}

	for _, genre := range artist.Genres {
		var genreID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO genres (name)
			VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, genre).Scan(&genreID)
		if err != nil {
			return 0, fmt.Errorf("upsert genre: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO artist_genres (artist_id, genre_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, id, genreID); err != nil {
			return 0, fmt.Errorf("link genre: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtist(row rowScanner) (Artist, error) {
	var artist Artist
	if err := row.Scan(
		&artist.ID, &artist.Name, &artist.Slug,
		&artist.Description, &artist.SpotifyURL, &artist.SoundcloudURL,
		&artist.CreatedAt, pq.Array(&artist.Genres),
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Artist{}, err
		}
		return Artist{}, fmt.Errorf("scan artist: %w", err)
	}
	return artist, nil
}
