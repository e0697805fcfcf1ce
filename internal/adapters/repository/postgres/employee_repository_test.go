package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/shift-scheduler/internal/core/employee"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestEmployeeRepository_FindByID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, name\s+FROM employee\s+WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(2), "Jane"))

	found, err := NewEmployeeRepository(mock).FindByID(context.Background(), 2)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found.ID != 2 || found.Name != "Jane" {
		t.Fatalf("unexpected employee %+v", found)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmployeeRepository_LockByID_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`FROM employee\s+WHERE id = \$1\s+FOR UPDATE`).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}))

	_, err = NewEmployeeRepository(mock).LockByID(context.Background(), 99)
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestScanEmployee_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	_, err := scanEmployee(row)
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}
