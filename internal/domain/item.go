package domain

import (
	"context"
	"time"
)

// Item 商品。Category 为空表示未设置。
type Item struct {
	ID          string
	Name        string
	Price       float64
	Description string
	ImageURLs   []string
	Category    string
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemPatch 已校验、已规范化的局部更新；nil 字段表示不修改。
// Category 指向空串表示清除分类。
type ItemPatch struct {
	Name        *string
	Price       *float64
	Description *string
	ImageURLs   []string
	Category    *string
	Stock       *int
}

func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Description == nil &&
		p.ImageURLs == nil && p.Category == nil && p.Stock == nil
}

// Apply 把补丁写到 it 上（不动时间戳）
func (p ItemPatch) Apply(it *Item) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.ImageURLs != nil {
		it.ImageURLs = append([]string(nil), p.ImageURLs...)
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.Stock != nil {
		it.Stock = *p.Stock
	}
}

// Page 页码从 1 开始
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int { return (p.Number - 1) * p.Size }

type ItemRepository interface {
	// Create 分配 ID 与时间戳后写入，并回填到 it
	Create(ctx context.Context, it *Item) error
	FindByID(ctx context.Context, id string) (*Item, error)
	// List 按创建时间倒序
	List(ctx context.Context, offset, limit int) ([]Item, error)
	// Update 原子地应用补丁并返回更新后的文档
	Update(ctx context.Context, id string, p ItemPatch) (*Item, error)
	Delete(ctx context.Context, id string) error
}
