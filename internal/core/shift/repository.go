package shift

import "context"

// Repository はシフト永続化の抽象です。業務ルールは持ちません。
type Repository interface {
	// FindByID は存在しない場合 ErrShiftNotFound を返します。
	FindByID(ctx context.Context, id int64) (*Shift, error)
	// LockByID は実行中のトランザクション内でシフト行をロックして取得します。
	LockByID(ctx context.Context, id int64) (*Shift, error)
	List(ctx context.Context) ([]*Shift, error)
	// Create は渡された ID を無視し、採番済みのシフトを返します。
	Create(ctx context.Context, shift *Shift) (*Shift, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]*Shift, error)
	// AssignEmployee は未割り当てのシフトにのみ社員を設定します。
	// 更新対象がない場合は ErrAlreadyAssigned を返します。
	AssignEmployee(ctx context.Context, shiftID, employeeID int64) error
}
