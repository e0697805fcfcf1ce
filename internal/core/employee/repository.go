package employee

import "context"

// Repository はローカル社員テーブルに対する存在確認の抽象です。
type Repository interface {
	// FindByID はロックを取らない読み取りです。トランザクション外の存在確認に使います。
	// 存在しない場合は ErrEmployeeNotFound を返します。
	FindByID(ctx context.Context, id int64) (*Employee, error)
	// LockByID は FindByID と同じ結果を返しつつ、実行中のトランザクション内で社員行をロックします。
	// 割り当て処理は同じ社員への並行割り当てを直列化するためこちらを使います。
	LockByID(ctx context.Context, id int64) (*Employee, error)
}

// Directory は外部の社員ディレクトリから表示用情報を取得する抽象です。
// 失敗時は ErrDirectoryUnavailable をラップしたエラーを返します。
type Directory interface {
	FetchByID(ctx context.Context, id int64, authToken string) (*DirectoryRecord, error)
}
