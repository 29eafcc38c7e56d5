package admin

import (
	"time"

	"storefront/internal/domain"
)

type AdminModel struct {
	ID           string `gorm:"primaryKey;type:varchar(24)"`
	Username     string `gorm:"uniqueIndex;size:191;not null"`
	PasswordHash string `gorm:"size:100;not null"`
	Role         string `gorm:"size:16;not null;default:admin"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (AdminModel) TableName() string { return "users" }

func (m *AdminModel) ToDomain() *domain.AdminAccount {
	return &domain.AdminAccount{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
