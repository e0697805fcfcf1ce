package shift

import "time"

// Shift は 1 日の中に収まる勤務時間帯です。EmployeeID は割り当て前は nil です。
type Shift struct {
	ID         int64
	EmployeeID *int64
	Start      time.Time
	End        time.Time
}

// IsAssigned は社員が割り当て済みかを返します。
func (s *Shift) IsAssigned() bool {
	return s.EmployeeID != nil
}

// Overlaps は半開区間 [Start, End) として other と重なるかを返します。
// 終了時刻と開始時刻が一致するだけのシフト同士は重なりません。
func (s *Shift) Overlaps(other *Shift) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// View はシフトと割り当て社員の表示文字列を合成した読み取り結果です。
type View struct {
	Shift           *Shift
	EmployeeDisplay string
}
