package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/domain"
	"storefront/internal/feature/admin"
	"storefront/pkg/utils"
)

type AdminRepoGorm struct{ db *gorm.DB }

func NewAdminRepoGorm(db *gorm.DB) *AdminRepoGorm { return &AdminRepoGorm{db: db} }

func (r *AdminRepoGorm) FindByUsername(ctx context.Context, username string) (*domain.AdminAccount, error) {
	var m admin.AdminModel
	err := r.db.WithContext(ctx).First(&m, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return m.ToDomain(), nil
}

func (r *AdminRepoGorm) HasAdmin(ctx context.Context) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&admin.AdminModel{}).Where("role = ?", domain.RoleAdmin).Limit(1).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	return n > 0, nil
}

func (r *AdminRepoGorm) Create(ctx context.Context, a *domain.AdminAccount) error {
	m := admin.AdminModel{
		ID:           utils.NewID(),
		Username:     a.Username,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	a.ID, a.CreatedAt, a.UpdatedAt = m.ID, m.CreatedAt, m.UpdatedAt
	return nil
}
