package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/pkg/utils"
)

type AdminRepo struct {
	mu       sync.RWMutex
	accounts map[string]domain.AdminAccount // key: username
}

func NewAdminRepo() *AdminRepo {
	return &AdminRepo{accounts: map[string]domain.AdminAccount{}}
}

func (r *AdminRepo) FindByUsername(_ context.Context, username string) (*domain.AdminAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (r *AdminRepo) HasAdmin(_ context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if a.Role == domain.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (r *AdminRepo) Create(_ context.Context, a *domain.AdminAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.Username]; ok {
		return fmt.Errorf("username %q already exists", a.Username)
	}
	now := time.Now().UTC()
	a.ID = utils.NewID()
	a.CreatedAt, a.UpdatedAt = now, now
	r.accounts[a.Username] = *a
	return nil
}
