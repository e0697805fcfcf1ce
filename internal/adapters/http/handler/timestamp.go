package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// acceptedLayouts は受け付ける日時形式です。タイムゾーン指定の無い値は UTC とみなします。
// 保存形式が秒精度のため、秒未満を含む値は受け付けません。
var acceptedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Timestamp は JSON 上のシフト時刻です。出力は常に UTC の RFC 3339 です。
type Timestamp struct {
	time.Time
}

// UnmarshalJSON は受け付ける形式のいずれかで日時を解釈します。null はゼロ値になります。
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	for _, layout := range acceptedLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			if parsed.Nanosecond() != 0 {
				return fmt.Errorf("timestamp %q must not have fractional seconds", raw)
			}
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp %q is not RFC 3339", raw)
}

// MarshalJSON は UTC の RFC 3339 文字列を出力します。
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339))
}
