package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/ogurasousui/shift-scheduler/internal/platform/config"
)

// applicationName は pg_stat_activity に表示される接続名です。
const applicationName = "shift-scheduler"

// BuildPoolConfig は database 設定から pgxpool.Config を構築します。
// セッションのタイムゾーンは UTC に固定します。
// cfg.QueryLogLevel が設定されていれば、クエリを logger へトレース出力します。
func BuildPoolConfig(cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}

	params := poolCfg.ConnConfig.RuntimeParams
	params["timezone"] = "UTC"
	if _, ok := params["application_name"]; !ok {
		params["application_name"] = applicationName
	}

	tracer, err := newQueryTracer(cfg.QueryLogLevel, logger)
	if err != nil {
		return nil, err
	}
	if tracer != nil {
		poolCfg.ConnConfig.Tracer = tracer
	}

	return poolCfg, nil
}

// NewPool は pgxpool.Pool を生成し疎通確認を行います。
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := BuildPoolConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return pool, nil
}

// newQueryTracer は pgx のトレースを slog に流す tracelog.TraceLog を返します。
// level が空または "none" の場合は nil です。
func newQueryTracer(level string, logger *slog.Logger) (*tracelog.TraceLog, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return nil, nil
	}

	traceLevel, err := tracelog.LogLevelFromString(level)
	if err != nil {
		return nil, fmt.Errorf("postgres: query_log_level: %w", err)
	}
	if traceLevel == tracelog.LogLevelNone {
		return nil, nil
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &tracelog.TraceLog{
		Logger:   tracelog.LoggerFunc(slogQueryLogger(logger)),
		LogLevel: traceLevel,
	}, nil
}

func slogQueryLogger(logger *slog.Logger) func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	return func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		attrs := make([]slog.Attr, 0, len(data))
		for k, v := range data {
			attrs = append(attrs, slog.Any(k, v))
		}
		logger.LogAttrs(ctx, toSlogLevel(level), "postgres: "+msg, attrs...)
	}
}

func toSlogLevel(level tracelog.LogLevel) slog.Level {
	switch level {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
		return slog.LevelDebug
	case tracelog.LogLevelInfo:
		return slog.LevelInfo
	case tracelog.LogLevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
