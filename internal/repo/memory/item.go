// Package memory 进程内存储：本地开发（db.driver=memory）与测试使用，重启即丢失。
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/pkg/utils"
)

type itemRecord struct {
	item domain.Item
	seq  int64 // 同一时间戳内按插入顺序倒序
}

type ItemRepo struct {
	mu    sync.RWMutex
	items map[string]*itemRecord
	seq   int64
	Now   func() time.Time
}

func NewItemRepo() *ItemRepo {
	return &ItemRepo{items: map[string]*itemRecord{}, Now: time.Now}
}

func clone(it domain.Item) domain.Item {
	it.ImageURLs = append([]string{}, it.ImageURLs...)
	return it
}

func (r *ItemRepo) Create(_ context.Context, it *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.Now().UTC()
	it.ID = utils.NewID()
	it.CreatedAt, it.UpdatedAt = now, now
	r.seq++
	r.items[it.ID] = &itemRecord{item: clone(*it), seq: r.seq}
	return nil
}

func (r *ItemRepo) FindByID(_ context.Context, id string) (*domain.Item, error) {
	if !utils.ValidID(id) {
		return nil, domain.ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	it := clone(rec.item)
	return &it, nil
}

func (r *ItemRepo) List(_ context.Context, offset, limit int) ([]domain.Item, error) {
	r.mu.RLock()
	recs := make([]*itemRecord, 0, len(r.items))
	for _, rec := range r.items {
		recs = append(recs, rec)
	}
	r.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.item.CreatedAt.Equal(b.item.CreatedAt) {
			return a.item.CreatedAt.After(b.item.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := []domain.Item{}
	for i := max(offset, 0); i < len(recs) && len(out) < limit; i++ {
		out = append(out, clone(recs[i].item))
	}
	return out, nil
}

func (r *ItemRepo) Update(_ context.Context, id string, p domain.ItemPatch) (*domain.Item, error) {
	if !utils.ValidID(id) {
		return nil, domain.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !p.Empty() {
		p.Apply(&rec.item)
		rec.item.UpdatedAt = r.Now().UTC()
	}
	it := clone(rec.item)
	return &it, nil
}

func (r *ItemRepo) Delete(_ context.Context, id string) error {
	if !utils.ValidID(id) {
		return domain.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
