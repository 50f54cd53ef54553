package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestListDuplicateGroups(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(`GROUP BY folded`).
		WillReturnRows(sqlmock.NewRows([]string{"folded", "count"}).
			AddRow("shpongle", 2))

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	artistColumns := []string{
		"id", "name", "slug", "description", "spotify_url", "soundcloud_url",
		"created_at", "genres", "vote_count",
	}
	mock.ExpectQuery(`WHERE lower\(trim\(a\.name\)\) = \$1`).
		WithArgs("shpongle").
		WillReturnRows(sqlmock.NewRows(artistColumns).
			AddRow(int64(1), "Shpongle", "shpongle", "psychedelic downtempo", "", "",
				created, []byte(`{downtempo,psychedelic}`), 12).
			AddRow(int64(2), "shpongle", "shpongle-2", "", "", "",
				created.Add(time.Hour), []byte(`{}`), 0))

	groups, err := s.ListDuplicateGroups(context.Background())
	if err != nil {
		t.Fatalf("ListDuplicateGroups: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}

	group := groups[0]
	if group.Name != "shpongle" || group.Count != 2 || len(group.Artists) != 2 {
		t.Fatalf("unexpected group: %+v", group)
	}
	if group.Artists[0].VoteCount != 12 || len(group.Artists[0].Genres) != 2 {
		t.Fatalf("unexpected first artist: %+v", group.Artists[0])
	}
	if group.Artists[1].ID != 2 || len(group.Artists[1].Genres) != 0 {
		t.Fatalf("unexpected second artist: %+v", group.Artists[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListDuplicateGroupsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(`GROUP BY folded`).
		WillReturnRows(sqlmock.NewRows([]string{"folded", "count"}))

	groups, err := s.ListDuplicateGroups(context.Background())
	if err != nil {
		t.Fatalf("ListDuplicateGroups: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("groups = %+v, want none", groups)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
