package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/shift-scheduler/internal/core/shift"
	pgdb "github.com/ogurasousui/shift-scheduler/internal/platform/db/postgres"
)

// shiftTimeLayout はシフト時刻の保存形式です。辞書順と時刻順が一致します。
const shiftTimeLayout = "2006-01-02 15:04:05"

const shiftColumns = `id, employee_id, start_time, end_time`

// ShiftRepository は PostgreSQL を利用したシフト永続化の実装です。
type ShiftRepository struct {
	pool pgdb.Queryer
}

// NewShiftRepository は ShiftRepository を生成します。
func NewShiftRepository(pool pgdb.Queryer) *ShiftRepository {
	return &ShiftRepository{pool: pool}
}

// FindByID は ID でシフトを取得します。
func (r *ShiftRepository) FindByID(ctx context.Context, id int64) (*shift.Shift, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+shiftColumns+`
          FROM shift
         WHERE id = $1
    `, id)

	return scanShift(row)
}

// LockByID は ID でシフトを取得し、トランザクション終了まで行をロックします。
func (r *ShiftRepository) LockByID(ctx context.Context, id int64) (*shift.Shift, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+shiftColumns+`
          FROM shift
         WHERE id = $1
           FOR UPDATE
    `, id)

	return scanShift(row)
}

// List は全シフトを ID 順に返します。
func (r *ShiftRepository) List(ctx context.Context) ([]*shift.Shift, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+shiftColumns+`
          FROM shift
         ORDER BY id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectShifts(rows)
}

// Create はシフトを新規作成します。渡された ID と社員は無視されます。
func (r *ShiftRepository) Create(ctx context.Context, s *shift.Shift) (*shift.Shift, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO shift (start_time, end_time)
        VALUES ($1, $2)
        RETURNING `+shiftColumns+`
    `, formatShiftTime(s.Start), formatShiftTime(s.End))

	return scanShift(row)
}

// ListByEmployee は社員に割り当て済みのシフトを開始時刻順に返します。
func (r *ShiftRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*shift.Shift, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+shiftColumns+`
          FROM shift
         WHERE employee_id = $1
         ORDER BY start_time, id
    `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectShifts(rows)
}

// AssignEmployee は未割り当てのシフトに社員を設定します。
func (r *ShiftRepository) AssignEmployee(ctx context.Context, shiftID, employeeID int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE shift
           SET employee_id = $1
         WHERE id = $2
           AND employee_id IS NULL
    `, employeeID, shiftID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrAlreadyAssigned
	}
	return nil
}

func collectShifts(rows pgx.Rows) ([]*shift.Shift, error) {
	shifts := make([]*shift.Shift, 0)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shifts, nil
}

func scanShift(row pgx.Row) (*shift.Shift, error) {
	var (
		id         int64
		employeeID sql.NullInt64
		start, end string
	)

	if err := row.Scan(&id, &employeeID, &start, &end); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shift.ErrShiftNotFound
		}
		return nil, err
	}

	startAt, err := parseShiftTime(start)
	if err != nil {
		return nil, fmt.Errorf("shift %d: start_time: %w", id, err)
	}
	endAt, err := parseShiftTime(end)
	if err != nil {
		return nil, fmt.Errorf("shift %d: end_time: %w", id, err)
	}

	s := &shift.Shift{ID: id, Start: startAt, End: endAt}
	if employeeID.Valid {
		assigned := employeeID.Int64
		s.EmployeeID = &assigned
	}
	return s, nil
}

func formatShiftTime(t time.Time) string {
	return t.UTC().Format(shiftTimeLayout)
}

func parseShiftTime(raw string) (time.Time, error) {
	return time.ParseInLocation(shiftTimeLayout, raw, time.UTC)
}
