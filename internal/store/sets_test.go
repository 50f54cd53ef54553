package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestFindSetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(`FROM sets`).
		WithArgs(int64(10), "Shpongle", nil).
		WillReturnError(sql.ErrNoRows)

	_, err = s.FindSet(context.Background(), 10, "Shpongle", nil)
	if !errors.Is(err, ErrSetNotFound) {
		t.Fatalf("expected ErrSetNotFound, got %v", err)
	}
}

func TestCreateSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	stageID := int64(4)
	start := time.Date(2025, 7, 4, 20, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO sets`).
		WithArgs(int64(10), &stageID, "Shpongle & Ott", "shpongle-ott", "late night", &start, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(55)))

	id, err := s.CreateSet(context.Background(), Set{
		EditionID:   10,
		StageID:     &stageID,
		Name:        "Shpongle & Ott",
		Description: "late night",
		TimeStart:   &start,
	})
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	if id != 55 {
		t.Fatalf("id = %d, want 55", id)
	}
}

func TestUpdateSetScheduleClearsArchived(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(`archived = FALSE`).
		WithArgs(int64(55), nil, nil, "updated").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.UpdateSetSchedule(context.Background(), 55, nil, nil, "updated"); err != nil {
		t.Fatalf("UpdateSetSchedule: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestLinkSetArtistIgnoresDuplicates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(`INSERT INTO set_artists`).
		WithArgs(int64(55), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.LinkSetArtist(context.Background(), 55, 1); err != nil {
		t.Fatalf("LinkSetArtist: %v", err)
	}
}
