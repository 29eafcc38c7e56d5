package item

import (
	"time"

	"storefront/internal/domain"
)

// ItemModel SQL 后端（postgres/mysql）的表结构
type ItemModel struct {
	ID          string   `gorm:"primaryKey;type:varchar(24)"`
	Name        string   `gorm:"size:255;not null"`
	Price       float64  `gorm:"not null"`
	Description string   `gorm:"type:text;not null"`
	ImageURLs   []string `gorm:"column:image_urls;type:text;serializer:json;not null"`
	Category    *string  `gorm:"size:128"`
	Stock       int      `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ItemModel) TableName() string { return "items" }

func FromDomain(it *domain.Item) *ItemModel {
	m := &ItemModel{
		ID:          it.ID,
		Name:        it.Name,
		Price:       it.Price,
		Description: it.Description,
		ImageURLs:   it.ImageURLs,
		Stock:       it.Stock,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
	if it.Category != "" {
		c := it.Category
		m.Category = &c
	}
	return m
}

func (m *ItemModel) ToDomain() domain.Item {
	it := domain.Item{
		ID:          m.ID,
		Name:        m.Name,
		Price:       m.Price,
		Description: m.Description,
		ImageURLs:   m.ImageURLs,
		Stock:       max(0, m.Stock),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Category != nil {
		it.Category = *m.Category
	}
	if it.ImageURLs == nil {
		it.ImageURLs = []string{}
	}
	return it
}
