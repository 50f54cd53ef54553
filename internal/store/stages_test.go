package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUpsertStageUpdatesExisting(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(`SELECT id\s+FROM stages`).
		WithArgs(int64(10), "Main Stage").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(`UPDATE stages`).
		WithArgs(int64(7), "Main Stage", "main-stage").
		WillReturnResult(sqlmock.NewResult(0, 1))

	stage, created, err := s.UpsertStage(context.Background(), 10, "Main Stage")
	if err != nil {
		t.Fatalf("UpsertStage: %v", err)
	}
	if created {
		t.Fatal("existing stage must be updated, not created")
	}
	if stage.ID != 7 || stage.Slug != "main-stage" {
		t.Fatalf("unexpected stage: %+v", stage)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpsertStageInsertsNew(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(`SELECT id\s+FROM stages`).
		WithArgs(int64(10), "Forest Stage").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO stages`).
		WithArgs(int64(10), "Forest Stage", "forest-stage").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))

	stage, created, err := s.UpsertStage(context.Background(), 10, "Forest Stage")
	if err != nil {
		t.Fatalf("UpsertStage: %v", err)
	}
	if !created {
		t.Fatal("missing stage must be created")
	}
	if stage.ID != 8 {
		t.Fatalf("unexpected stage id: %d", stage.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetStageByNameNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(`SELECT id, name, slug\s+FROM stages`).
		WithArgs(int64(10), "Nowhere").
		WillReturnError(sql.ErrNoRows)

	_, err = s.GetStageByName(context.Background(), 10, "Nowhere")
	if !errors.Is(err, ErrStageNotFound) {
		t.Fatalf("expected ErrStageNotFound, got %v", err)
	}
}
