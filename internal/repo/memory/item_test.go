package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func seed(t *testing.T, r *ItemRepo, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		it := &domain.Item{Name: fmt.Sprintf("item-%d", i), ImageURLs: []string{"http://x"}}
		require.NoError(t, r.Create(context.Background(), it))
		ids = append(ids, it.ID)
	}
	return ids
}

func TestListNewestFirstWithSameTimestamp(t *testing.T) {
	r := NewItemRepo()
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.Now = func() time.Time { return fixed }
	ids := seed(t, r, 3)

	got, err := r.List(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestListNegativeOffsetStartsAtZero(t *testing.T) {
	r := NewItemRepo()
	seed(t, r, 3)

	got, err := r.List(context.Background(), -5, 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestListOffsetLimit(t *testing.T) {
	r := NewItemRepo()
	seed(t, r, 5)
	got, err := r.List(context.Background(), 4, 2)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = r.List(context.Background(), 10, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReturnedItemsAreCopies(t *testing.T) {
	r := NewItemRepo()
	id := seed(t, r, 1)[0]
	it, err := r.FindByID(context.Background(), id)
	require.NoError(t, err)
	it.ImageURLs[0] = "mutated"

	again, err := r.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "http://x", again.ImageURLs[0])
}

func TestUpdateDeleteErrors(t *testing.T) {
	r := NewItemRepo()
	ctx := context.Background()
	missing := "507f1f77bcf86cd799439011"

	_, err := r.Update(ctx, "bad", domain.ItemPatch{})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	_, err = r.Update(ctx, missing, domain.ItemPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, missing), domain.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "bad"), domain.ErrInvalidID)
}

func TestAdminRepo(t *testing.T) {
	r := NewAdminRepo()
	ctx := context.Background()
	ok, err := r.HasAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Create(ctx, &domain.AdminAccount{Username: "admin", PasswordHash: "h", Role: domain.RoleAdmin}))
	assert.Error(t, r.Create(ctx, &domain.AdminAccount{Username: "admin"}))

	ok, err = r.HasAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	a, err := r.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "h", a.PasswordHash)
	_, err = r.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
