package employee

import "fmt"

// Employee はシフト割り当ての存在確認に使うローカルの社員エンティティです。
type Employee struct {
	ID   int64
	Name string
}

// DirectoryRecord は社員ディレクトリから取得した表示用の情報です。
// ローカルの Employee と同期している保証はありません。
type DirectoryRecord struct {
	Name  string
	Email string
}

// DisplayString は "{name} ({email})" 形式の表示文字列を返します。
func (r DirectoryRecord) DisplayString() string {
	return fmt.Sprintf("%s (%s)", r.Name, r.Email)
}
