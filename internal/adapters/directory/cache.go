package directory

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ogurasousui/shift-scheduler/internal/core/employee"
	"github.com/redis/go-redis/v9"
)

// cacheKeyFormat は社員 ID と認証情報のハッシュを組み合わせたキーです。
// 同じ社員でも認証情報が異なれば別エントリです。
const cacheKeyFormat = "directory:employee:%d:%x"

func cacheKey(id int64, authToken string) string {
	return fmt.Sprintf(cacheKeyFormat, id, sha256.Sum256([]byte(authToken)))
}

// RedisClient は CachedDirectory が必要とする go-redis のメソッドのみを表します。
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedDirectory はディレクトリ参照結果を Redis に保持する読み込みキャッシュです。
// Redis の障害は参照の失敗とせず、下位の Directory にフォールバックします。
type CachedDirectory struct {
	next   employee.Directory
	redis  RedisClient
	ttl    time.Duration
	logger *slog.Logger
}

var _ employee.Directory = (*CachedDirectory)(nil)

// NewCachedDirectory は CachedDirectory を生成します。
func NewCachedDirectory(next employee.Directory, client RedisClient, ttl time.Duration, logger *slog.Logger) *CachedDirectory {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedDirectory{next: next, redis: client, ttl: ttl, logger: logger}
}

type cachedRecord struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FetchByID はキャッシュを参照し、無ければ下位の Directory から取得して保存します。
// 失敗した参照結果はキャッシュしません。
func (d *CachedDirectory) FetchByID(ctx context.Context, id int64, authToken string) (*employee.DirectoryRecord, error) {
	key := cacheKey(id, authToken)

	raw, err := d.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rec cachedRecord
		if jsonErr := json.Unmarshal(raw, &rec); jsonErr == nil {
			return &employee.DirectoryRecord{Name: rec.Name, Email: rec.Email}, nil
		}
		d.logger.WarnContext(ctx, "discarding malformed directory cache entry", slog.String("key", key))
	case errors.Is(err, redis.Nil):
		// miss
	default:
		d.logger.WarnContext(ctx, "directory cache read failed", slog.String("key", key), slog.Any("error", err))
	}

	record, err := d.next.FetchByID(ctx, id, authToken)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedRecord{Name: record.Name, Email: record.Email})
	if err != nil {
		return record, nil
	}
	if err := d.redis.Set(ctx, key, payload, d.ttl).Err(); err != nil {
		d.logger.WarnContext(ctx, "directory cache write failed", slog.String("key", key), slog.Any("error", err))
	}

	return record, nil
}
