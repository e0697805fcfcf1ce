package health

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotReady は依存先が応答しない場合に返されます。
var ErrNotReady = errors.New("health: not ready")

// defaultTimeout は 1 回の疎通確認に使う上限時間です。
const defaultTimeout = 2 * time.Second

// Pinger は疎通確認が可能な依存先を表します。*pgxpool.Pool が満たします。
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker はサービスの稼働可否を判定するユースケースのインターフェースです。
type Checker interface {
	// Check は全依存先が応答すれば nil を返します。
	Check(ctx context.Context) error
}

// Service は Checker のデフォルト実装です。
type Service struct {
	db      Pinger
	timeout time.Duration
}

// NewService は Checker ユースケースの新しいインスタンスを返します。
func NewService(db Pinger) *Service {
	return &Service{db: db, timeout: defaultTimeout}
}

// Check はデータベースに ping し、失敗した場合は ErrNotReady をラップして返します。
func (s *Service) Check(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("%w: database not configured", ErrNotReady)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: database: %w", ErrNotReady, err)
	}
	return nil
}
