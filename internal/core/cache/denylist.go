package cache

import (
	"context"
	"time"
)

const denyPrefix = "jwt:deny:"

// Denylist 基于 Redis 的令牌吊销名单，key 在令牌过期时自动清除
type Denylist struct{ c *Cache }

func NewDenylist(c *Cache) *Denylist { return &Denylist{c: c} }

func (d *Denylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return d.c.RDB.Set(ctx, denyPrefix+jti, 1, ttl).Err()
}

func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.c.RDB.Exists(ctx, denyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
