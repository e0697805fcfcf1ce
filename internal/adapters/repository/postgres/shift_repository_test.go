package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/shift-scheduler/internal/core/shift"
	pgdb "github.com/ogurasousui/shift-scheduler/internal/platform/db/postgres"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

type stubRow struct {
	scanFn func(dest ...interface{}) error
}

func (s stubRow) Scan(dest ...interface{}) error {
	return s.scanFn(dest...)
}

var shiftRowColumns = []string{"id", "employee_id", "start_time", "end_time"}

func TestScanShift_Success(t *testing.T) {
	t.Parallel()

	row := pgxmock.NewRows(shiftRowColumns).AddRow(int64(1), int64(2), "2024-01-01 08:00:00", "2024-01-01 16:00:00")

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`FROM shift\s+WHERE id = \$1`).WithArgs(int64(1)).WillReturnRows(row)

	found, err := NewShiftRepository(mock).FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}

	if found.ID != 1 || found.EmployeeID == nil || *found.EmployeeID != 2 {
		t.Fatalf("unexpected shift %+v", found)
	}
	if !found.Start.Equal(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %s", found.Start)
	}
	if !found.End.Equal(time.Date(2024, 1, 1, 16, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %s", found.End)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestScanShift_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	_, err := scanShift(row)
	if !errors.Is(err, shift.ErrShiftNotFound) {
		t.Fatalf("expected ErrShiftNotFound, got %v", err)
	}
}

func TestScanShift_RejectsMalformedTime(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`FROM shift`).WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(shiftRowColumns).AddRow(int64(3), nil, "01/01/2024 08:00", "2024-01-01 16:00:00"))

	_, err = NewShiftRepository(mock).FindByID(context.Background(), 3)
	if err == nil {
		t.Fatal("expected strict parsing to reject non-canonical timestamp")
	}
	if errors.Is(err, shift.ErrShiftNotFound) {
		t.Fatalf("malformed row must not look like not found: %v", err)
	}
}

func TestShiftRepository_Create_FormatsTimes(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 16, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO shift \(start_time, end_time\)\s+VALUES \(\$1, \$2\)\s+RETURNING id, employee_id, start_time, end_time`).
		WithArgs("2024-01-01 08:00:00", "2024-01-01 16:00:00").
		WillReturnRows(pgxmock.NewRows(shiftRowColumns).AddRow(int64(1), nil, "2024-01-01 08:00:00", "2024-01-01 16:00:00"))

	assignee := int64(9)
	created, err := NewShiftRepository(mock).Create(context.Background(), &shift.Shift{ID: 77, EmployeeID: &assignee, Start: start, End: end})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if created.ID != 1 {
		t.Fatalf("expected store-assigned id 1, got %d", created.ID)
	}
	if created.IsAssigned() {
		t.Fatalf("expected created shift to be unassigned")
	}
	if !created.Start.Equal(start) || !created.End.Equal(end) {
		t.Fatalf("expected round-tripped times, got %s - %s", created.Start, created.End)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestShiftRepository_List_Empty(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`FROM shift\s+ORDER BY id`).WillReturnRows(pgxmock.NewRows(shiftRowColumns))

	shifts, err := NewShiftRepository(mock).List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if shifts == nil || len(shifts) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", shifts)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestShiftRepository_ListByEmployee_UsesParameter(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	rows := pgxmock.NewRows(shiftRowColumns).
		AddRow(int64(1), int64(7), "2024-01-01 08:00:00", "2024-01-01 10:00:00").
		AddRow(int64(4), int64(7), "2024-01-02 08:00:00", "2024-01-02 10:00:00")

	mock.ExpectQuery(`FROM shift\s+WHERE employee_id = \$1\s+ORDER BY start_time, id`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	shifts, err := NewShiftRepository(mock).ListByEmployee(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByEmployee returned error: %v", err)
	}
	if len(shifts) != 2 || shifts[1].ID != 4 {
		t.Fatalf("unexpected shifts %+v", shifts)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestShiftRepository_AssignEmployee(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		affected int64
		want     error
	}{
		{name: "assigned", affected: 1},
		{name: "guard tripped", affected: 0, want: shift.ErrAlreadyAssigned},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock pool: %v", err)
			}
			defer mock.Close()

			mock.ExpectExec(`UPDATE shift\s+SET employee_id = \$1\s+WHERE id = \$2\s+AND employee_id IS NULL`).
				WithArgs(int64(2), int64(1)).
				WillReturnResult(pgxmock.NewResult("UPDATE", tc.affected))

			err = NewShiftRepository(mock).AssignEmployee(context.Background(), 1, 2)
			if tc.want == nil && err != nil {
				t.Fatalf("AssignEmployee returned error: %v", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestShiftRepository_LockByID_UsesTransactionFromContext(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewShiftRepository(mock)
	tm := pgdb.NewTransactionManager(mock)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectQuery(`FROM shift\s+WHERE id = \$1\s+FOR UPDATE`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows(shiftRowColumns).AddRow(int64(5), nil, "2024-01-01 08:00:00", "2024-01-01 16:00:00"))
	mock.ExpectCommit()

	err = tm.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		_, err := repo.LockByID(ctx, 5)
		return err
	})
	if err != nil {
		t.Fatalf("LockByID returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestShiftRepository_StorageErrorPropagates(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	dbErr := errors.New("connection refused")
	mock.ExpectQuery(`FROM shift`).WillReturnError(dbErr)

	if _, err := NewShiftRepository(mock).List(context.Background()); !errors.Is(err, dbErr) {
		t.Fatalf("expected storage error to propagate, got %v", err)
	}
}
