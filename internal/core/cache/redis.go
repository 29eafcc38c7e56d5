package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// LoadTimeout 单次回源的上限
const LoadTimeout = 10 * time.Second

type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	// 先读缓存；Redis 不可用时直接回源
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	// single flight 合并回源；回源不随首个调用方取消，避免连累同 key 的等待者
	v, err, _ := c.sf.Do(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
		defer cancel()
		b, e := load(lctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(lctx, key, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Generation 读取命名空间的代数；写操作 Bump 后旧 key 自然失效
func (c *Cache) Generation(ctx context.Context, ns string) int64 {
	n, err := c.RDB.Get(ctx, genKey(ns)).Int64()
	if err != nil {
		return 0
	}
	return n
}

func (c *Cache) Bump(ctx context.Context, ns string) error {
	return c.RDB.Incr(ctx, genKey(ns)).Err()
}

func genKey(ns string) string { return fmt.Sprintf("%s:gen", ns) }
