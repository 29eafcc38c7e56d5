package repo

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/core/cache"
	"storefront/internal/domain"
	"storefront/internal/repo/memory"
	"storefront/pkg/utils"
)

// Redis 不可用时装饰器退化为直连底层仓储
func TestCachedItemRepoDegradesWithoutRedis(t *testing.T) {
	c := &cache.Cache{RDB: redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})}
	defer c.Close()

	r := NewCachedItemRepo(memory.NewItemRepo(), c, time.Minute, zap.NewNop())
	ctx := context.Background()

	it := &domain.Item{Name: "Kettle", Price: 500, Description: "d", ImageURLs: []string{"u"}}
	require.NoError(t, r.Create(ctx, it))

	got, err := r.FindByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kettle", got.Name)

	name := "Pot"
	up, err := r.Update(ctx, it.ID, domain.ItemPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Pot", up.Name)

	list, err := r.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = r.FindByID(ctx, utils.NewID())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, r.Delete(ctx, it.ID))
	assert.ErrorIs(t, r.Delete(ctx, it.ID), domain.ErrNotFound)
}
