package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"storefront/internal/feature/admin"
	"storefront/internal/feature/item"
)

// MigrateGorm 建表（users / items）
func MigrateGorm(db *gorm.DB) error {
	return db.AutoMigrate(&admin.AdminModel{}, &item.ItemModel{})
}

// MigrateMongo 建索引（users.username 唯一、items 按创建时间倒序）
func MigrateMongo(ctx context.Context, db *mongo.Database) error {
	if err := NewAdminRepoMongo(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return NewItemRepoMongo(db).EnsureIndexes(ctx)
}
