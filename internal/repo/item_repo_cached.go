package repo

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storefront/internal/core/cache"
	"storefront/internal/domain"
)

const itemNS = "items"

// CachedItemRepo 读穿缓存：按 id 与分页缓存读取结果，任何写入都会使整个命名空间失效
type CachedItemRepo struct {
	domain.ItemRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedItemRepo(inner domain.ItemRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *CachedItemRepo {
	return &CachedItemRepo{ItemRepository: inner, cache: c, ttl: ttl, log: l}
}

func (r *CachedItemRepo) key(ctx context.Context, format string, args ...any) string {
	gen := r.cache.Generation(ctx, itemNS)
	return fmt.Sprintf("%s:%d:", itemNS, gen) + fmt.Sprintf(format, args...)
}

func (r *CachedItemRepo) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	return cache.GetOrLoadJSON(r.cache, ctx, r.key(ctx, "id:%s", id), r.ttl,
		func(ctx context.Context) (*domain.Item, error) {
			return r.ItemRepository.FindByID(ctx, id)
		})
}

func (r *CachedItemRepo) List(ctx context.Context, offset, limit int) ([]domain.Item, error) {
	return cache.GetOrLoadJSON(r.cache, ctx, r.key(ctx, "list:%d:%d", offset, limit), r.ttl,
		func(ctx context.Context) ([]domain.Item, error) {
			return r.ItemRepository.List(ctx, offset, limit)
		})
}

func (r *CachedItemRepo) invalidate(ctx context.Context) {
	if err := r.cache.Bump(ctx, itemNS); err != nil {
		r.log.Warn("item cache invalidate failed", zap.Error(err))
	}
}

func (r *CachedItemRepo) Create(ctx context.Context, it *domain.Item) error {
	if err := r.ItemRepository.Create(ctx, it); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedItemRepo) Update(ctx context.Context, id string, p domain.ItemPatch) (*domain.Item, error) {
	it, err := r.ItemRepository.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		r.invalidate(ctx)
	}
	return it, nil
}

func (r *CachedItemRepo) Delete(ctx context.Context, id string) error {
	if err := r.ItemRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}
