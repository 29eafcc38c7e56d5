package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 指向一个无人监听的端口：验证 Redis 不可用时回源、不报错
func unreachable() *Cache {
	return &Cache{RDB: redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})}
}

type payload struct {
	Name string `json:"name"`
}

func TestGetOrLoadJSONFallsBackToLoader(t *testing.T) {
	c := unreachable()
	defer c.Close()

	calls := 0
	got, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, func(context.Context) (*payload, error) {
		calls++
		return &payload{Name: "kettle"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "kettle", got.Name)
	assert.Equal(t, 1, calls)
}

// 回源不继承调用方的取消，但有上限
func TestGetOrLoadDetachesLoaderContext(t *testing.T) {
	c := unreachable()
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := c.GetOrLoad(ctx, "k", time.Minute, func(lctx context.Context) ([]byte, error) {
		if err := lctx.Err(); err != nil {
			return nil, err
		}
		dl, ok := lctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(LoadTimeout), dl, time.Second)
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), got)
}

func TestGetOrLoadJSONPropagatesLoaderError(t *testing.T) {
	c := unreachable()
	defer c.Close()

	boom := errors.New("boom")
	_, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, func(context.Context) ([]payload, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestGenerationDefaultsToZero(t *testing.T) {
	c := unreachable()
	defer c.Close()
	assert.Equal(t, int64(0), c.Generation(context.Background(), "items"))
	assert.Error(t, c.Bump(context.Background(), "items"))
}

func TestDenylistSkipsExpired(t *testing.T) {
	c := unreachable()
	defer c.Close()
	// 已过期的令牌无需写入
	assert.NoError(t, NewDenylist(c).Revoke(context.Background(), "jti", time.Now().Add(-time.Minute)))
	_, err := NewDenylist(c).IsRevoked(context.Background(), "jti")
	assert.Error(t, err)
}
