package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/ogurasousui/shift-scheduler/internal/core/employee"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service はシフトに関するユースケースをまとめます。永続化ロジックは持ちません。
type Service struct {
	shifts    Repository
	employees employee.Repository
	directory employee.Directory
	tx        TransactionManager
}

// UseCase はシフトユースケースの公開インターフェースです。
type UseCase interface {
	CreateShift(ctx context.Context, in CreateShiftInput) (*Shift, error)
	GetShiftView(ctx context.Context, in GetShiftInput) (*View, error)
	ListShifts(ctx context.Context) ([]*Shift, error)
	AssignEmployee(ctx context.Context, in AssignEmployeeInput) error
}

// NewService は Service を生成します。tx が nil の場合はトランザクションを張りません。
func NewService(shifts Repository, employees employee.Repository, directory employee.Directory, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{
		shifts:    shifts,
		employees: employees,
		directory: directory,
		tx:        tx,
	}
}

// CreateShiftInput はシフト作成時の入力です。
type CreateShiftInput struct {
	Start time.Time
	End   time.Time
}

// GetShiftInput はシフト取得時の入力です。
type GetShiftInput struct {
	ID int64
}

// AssignEmployeeInput は社員割り当て時の入力です。
type AssignEmployeeInput struct {
	ShiftID    int64
	EmployeeID int64
}

// CreateShift は入力を検証し、未割り当てのシフトを作成します。
func (s *Service) CreateShift(ctx context.Context, in CreateShiftInput) (*Shift, error) {
	if in.Start.IsZero() || in.End.IsZero() {
		return nil, ErrMissingTime
	}

	if in.Start.After(in.End) {
		return nil, ErrStartAfterEnd
	}
	// 暦日は送信されたオフセットで判定する
	if !sameDay(in.Start, in.End.In(in.Start.Location())) {
		return nil, ErrMultiDay
	}

	start := normalizeTime(in.Start)
	end := normalizeTime(in.End)

	created, err := s.shifts.Create(ctx, &Shift{Start: start, End: end})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetShiftView はシフトを取得し、割り当て済みであればディレクトリの表示文字列を合成します。
// ディレクトリ取得に失敗した場合は割り当てを隠さずにエラーを返します。
func (s *Service) GetShiftView(ctx context.Context, in GetShiftInput) (*View, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	found, err := s.shifts.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if !found.IsAssigned() {
		return &View{Shift: found}, nil
	}

	record, err := s.directory.FetchByID(ctx, *found.EmployeeID, employee.CredentialFromContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("shift %d: %w", found.ID, err)
	}

	return &View{Shift: found, EmployeeDisplay: record.DisplayString()}, nil
}

// ListShifts は全シフトを返します。
func (s *Service) ListShifts(ctx context.Context) ([]*Shift, error) {
	shifts, err := s.shifts.List(ctx)
	if err != nil {
		return nil, err
	}
	if shifts == nil {
		shifts = []*Shift{}
	}
	return shifts, nil
}

// AssignEmployee はシフトに社員を割り当てます。
// 検証順序はシフト存在、社員存在、割り当て済み、重複の順で、最初に失敗した時点で打ち切ります。
// 一連の処理は 1 つの読み書きトランザクション内でシフト行と社員行をロックして行います。
func (s *Service) AssignEmployee(ctx context.Context, in AssignEmployeeInput) error {
	if in.ShiftID <= 0 {
		return fmt.Errorf("shift_id: %w", ErrInvalidID)
	}
	if in.EmployeeID <= 0 {
		return fmt.Errorf("employee_id: %w", employee.ErrInvalidID)
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		target, err := s.shifts.LockByID(txCtx, in.ShiftID)
		if err != nil {
			return err
		}

		if _, err := s.employees.LockByID(txCtx, in.EmployeeID); err != nil {
			return err
		}

		if target.IsAssigned() {
			return ErrAlreadyAssigned
		}

		assigned, err := s.shifts.ListByEmployee(txCtx, in.EmployeeID)
		if err != nil {
			return err
		}
		for _, existing := range assigned {
			if existing.ID == target.ID {
				continue
			}
			if target.Overlaps(existing) {
				return fmt.Errorf("shift %d: %w", existing.ID, ErrOverlap)
			}
		}

		return s.shifts.AssignEmployee(txCtx, target.ID, in.EmployeeID)
	})
}

// normalizeTime は永続化形式に合わせて UTC・秒精度に揃えます。
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
