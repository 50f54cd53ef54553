package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCreateArtist(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO artists`).
		WithArgs("Ott", "ott", nil, "https://open.spotify.com/artist/ott", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectQuery(`INSERT INTO genres`).
		WithArgs("Psybient").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectExec(`INSERT INTO artist_genres`).
		WithArgs(int64(42), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := s.CreateArtist(context.Background(), Artist{
		Name:       "Ott",
		SpotifyURL: "https://open.spotify.com/artist/ott",
		Genres:     []string{"Psybient"},
	})
	if err != nil {
		t.Fatalf("CreateArtist: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d, want 42", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetArtistByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "name", "slug", "description", "spotify_url", "soundcloud_url", "created_at", "genres",
	}).AddRow(int64(1), "Shpongle", "shpongle", "psychedelic", "", "", created, []byte(`{downtempo,psychedelic}`))

	mock.ExpectQuery(`FROM artists a`).
		WithArgs("shpongle").
		WillReturnRows(rows)

	artist, err := s.GetArtistByName(context.Background(), "shpongle")
	if err != nil {
		t.Fatalf("GetArtistByName: %v", err)
	}
	if artist.ID != 1 || artist.Name != "Shpongle" {
		t.Fatalf("unexpected artist: %+v", artist)
	}
	if len(artist.Genres) != 2 {
		t.Fatalf("genres = %v, want 2 entries", artist.Genres)
	}
}

func TestGetArtistByNameNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(`FROM artists a`).
		WithArgs("Nobody").
		WillReturnError(sql.ErrNoRows)

	_, err = s.GetArtistByName(context.Background(), "Nobody")
	if !errors.Is(err, ErrArtistNotFound) {
		t.Fatalf("expected ErrArtistNotFound, got %v", err)
	}
}
