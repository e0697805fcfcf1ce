package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/shift-scheduler/internal/core/employee"
	pgdb "github.com/ogurasousui/shift-scheduler/internal/platform/db/postgres"
)

// EmployeeRepository は PostgreSQL を利用した社員の存在確認の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name
          FROM employee
         WHERE id = $1
    `, id)

	return scanEmployee(row)
}

// LockByID は ID で社員を取得し、同じ社員への並行した割り当てを直列化するため行をロックします。
func (r *EmployeeRepository) LockByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, name
          FROM employee
         WHERE id = $1
           FOR UPDATE
    `, id)

	return scanEmployee(row)
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var e employee.Employee
	if err := row.Scan(&e.ID, &e.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &e, nil
}
