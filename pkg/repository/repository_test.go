package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/cropwise/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func TestMapError(t *testing.T) {
	other := errors.New("connection reset")
	fk := &pgconn.PgError{Code: "23503"}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"foreign key passes through", fk, fk},
		{"other passes through", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repository.MapError(tt.err, errNotFound, errDuplicate); got != tt.want {
				t.Errorf("MapError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func scanName(s repository.Scanner) (string, error) {
	var name string
	err := s.Scan(&name)
	return name, err
}

func TestQueryMany(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT name FROM crops").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Rice").AddRow("Wheat"))

	names, err := repository.QueryMany(context.Background(), db, "SELECT name FROM crops", nil, scanName)
	if err != nil {
		t.Fatalf("QueryMany: %v", err)
	}
	if len(names) != 2 || names[0] != "Rice" || names[1] != "Wheat" {
		t.Errorf("names = %v", names)
	}

	mock.ExpectQuery("SELECT name FROM crops").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	names, err = repository.QueryMany(context.Background(), db, "SELECT name FROM crops", nil, scanName)
	if err != nil {
		t.Fatalf("QueryMany empty: %v", err)
	}
	if names == nil || len(names) != 0 {
		t.Errorf("empty result should be a non-nil empty slice, got %v", names)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestQueryOneNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT name FROM crops WHERE name").
		WithArgs("Quinoa").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	_, err = repository.QueryOne(context.Background(), db, "SELECT name FROM crops WHERE name = $1", []any{"Quinoa"}, scanName)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE plantings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err = repository.WithTx(ctx, db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "UPDATE plantings SET status = 'harvested'")
	})
	if err != nil {
		t.Fatalf("WithTx commit: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE plantings").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err = repository.WithTx(ctx, db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "UPDATE plantings SET status = 'harvested'")
	})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
