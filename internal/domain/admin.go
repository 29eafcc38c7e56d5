package domain

import (
	"context"
	"time"
)

// RoleAdmin 唯一角色
const RoleAdmin = "admin"

type AdminAccount struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type AdminRepository interface {
	// FindByUsername 精确匹配；不存在返回 ErrNotFound
	FindByUsername(ctx context.Context, username string) (*AdminAccount, error)
	// HasAdmin 是否已存在 role=admin 的账号
	HasAdmin(ctx context.Context) (bool, error)
	Create(ctx context.Context, a *AdminAccount) error
}
