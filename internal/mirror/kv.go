package mirror

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// StatusWriter 状态键的写入端（单元测试中可替换 Redis）
type StatusWriter interface {
	WriteStatus(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisStatusWriter 用 SET key value EX ttl 覆盖写入
type RedisStatusWriter struct {
	client *redis.Client
}

func NewRedisStatusWriter(client *redis.Client) *RedisStatusWriter {
	return &RedisStatusWriter{client: client}
}

// WriteStatus ttl <= 0 时键不过期
func (w *RedisStatusWriter) WriteStatus(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return w.client.Set(ctx, key, value, ttl).Err()
}
