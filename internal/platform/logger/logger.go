package logger

import (
	"io"
	"log/slog"
	"strings"

	"github.com/ogurasousui/shift-scheduler/internal/platform/config"
)

// New は設定に従って slog.Logger を生成します。
// 不正なレベルは info として扱い、format が "text" 以外の場合は JSON で出力します。
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}
