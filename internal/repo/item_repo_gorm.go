package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/domain"
	"storefront/internal/feature/item"
	"storefront/pkg/utils"
)

type ItemRepoGorm struct{ db *gorm.DB }

func NewItemRepoGorm(db *gorm.DB) *ItemRepoGorm { return &ItemRepoGorm{db: db} }

func (r *ItemRepoGorm) Create(ctx context.Context, it *domain.Item) error {
	it.ID = utils.NewID()
	m := item.FromDomain(it)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	it.CreatedAt, it.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *ItemRepoGorm) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	if !utils.ValidID(id) {
		return nil, domain.ErrInvalidID
	}
	var m item.ItemModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find item: %w", err)
	}
	it := m.ToDomain()
	return &it, nil
}

func (r *ItemRepoGorm) List(ctx context.Context, offset, limit int) ([]domain.Item, error) {
	var ms []item.ItemModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Offset(max(offset, 0)).Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	out := make([]domain.Item, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDomain())
	}
	return out, nil
}

// patchFields 补丁涉及的模型字段名（配合 Select 使零值也能写入）
func patchFields(p domain.ItemPatch) []string {
	fields := []string{"UpdatedAt"}
	if p.Name != nil {
		fields = append(fields, "Name")
	}
	if p.Price != nil {
		fields = append(fields, "Price")
	}
	if p.Description != nil {
		fields = append(fields, "Description")
	}
	if p.ImageURLs != nil {
		fields = append(fields, "ImageURLs")
	}
	if p.Category != nil {
		fields = append(fields, "Category")
	}
	if p.Stock != nil {
		fields = append(fields, "Stock")
	}
	return fields
}

// Update 在事务内：加行锁读取 → 更新 → 回读
func (r *ItemRepoGorm) Update(ctx context.Context, id string, p domain.ItemPatch) (*domain.Item, error) {
	if !utils.ValidID(id) {
		return nil, domain.ErrInvalidID
	}
	if p.Empty() {
		return r.FindByID(ctx, id)
	}
	var out item.ItemModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur item.ItemModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&cur, "id = ?", id).Error; err != nil {
			return err
		}
		it := cur.ToDomain()
		p.Apply(&it)
		it.UpdatedAt = time.Now()
		if err := tx.Model(&cur).Select(patchFields(p)).Updates(item.FromDomain(&it)).Error; err != nil {
			return err
		}
		return tx.First(&out, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	it := out.ToDomain()
	return &it, nil
}

func (r *ItemRepoGorm) Delete(ctx context.Context, id string) error {
	if !utils.ValidID(id) {
		return domain.ErrInvalidID
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&item.ItemModel{})
	if res.Error != nil {
		return fmt.Errorf("delete item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
