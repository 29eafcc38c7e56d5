package service

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/repo/memory"
	"storefront/pkg/utils"
)

func input(t *testing.T, body string) ItemInput {
	t.Helper()
	var in ItemInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func newItems() (*ItemService, *memory.ItemRepo) {
	r := memory.NewItemRepo()
	return NewItemService(r, zap.NewNop()), r
}

const kettle = `{"name":"Kettle","price":500,"description":"Steel kettle","imageUrl":"http://x/img.jpg","stock":3}`

func TestCreateThenGetRoundTrip(t *testing.T) {
	s, _ := newItems()
	ctx := context.Background()

	it, err := s.Create(ctx, input(t, `{"name":"  Kettle ","price":500.5,"description":" Steel ","imageUrl":["http://x/a.jpg"," ","http://x/b.jpg"],"category":" Kitchen ","stock":"4"}`))
	require.NoError(t, err)
	require.True(t, utils.ValidID(it.ID))

	got, err := s.Get(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kettle", got.Name)
	assert.Equal(t, 500.5, got.Price)
	assert.Equal(t, "Steel", got.Description)
	assert.Equal(t, []string{"http://x/a.jpg", "http://x/b.jpg"}, got.ImageURLs)
	assert.Equal(t, "Kitchen", got.Category)
	assert.Equal(t, 4, got.Stock)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateNamesMissingFields(t *testing.T) {
	s, _ := newItems()
	_, err := s.Create(context.Background(), input(t, `{"name":" ","price":"12","imageUrl":[]}`))
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"name", "price", "description", "imageUrl"}, ve.Fields)
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	s, r := newItems()
	_, err := s.Create(context.Background(), input(t, `{"name":"a","price":-1,"description":"d","imageUrl":"u"}`))
	assert.True(t, domain.IsValidation(err))

	items, err := r.List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStockCoercion(t *testing.T) {
	cases := map[string]int{
		`-5`:     0,
		`"abc"`:  0,
		`" 7 "`:  7,
		`3.9`:    3,
		`true`:   0,
		`"-2.5"`: 0,
		`1e12`:   2147483647,
	}
	s, _ := newItems()
	ctx := context.Background()
	for raw, want := range cases {
		body := `{"name":"a","price":1,"description":"d","imageUrl":"u","stock":` + raw + `}`
		it, err := s.Create(ctx, input(t, body))
		require.NoError(t, err, raw)
		assert.Equal(t, want, it.Stock, raw)

		up, err := s.Update(ctx, it.ID, input(t, `{"stock":`+raw+`}`))
		require.NoError(t, err, raw)
		assert.Equal(t, want, up.Stock, raw)
	}
}

func TestUpdateEmptyPatchLeavesItemUntouched(t *testing.T) {
	s, r := newItems()
	ctx := context.Background()
	it, err := s.Create(ctx, input(t, kettle))
	require.NoError(t, err)

	r.Now = func() time.Time { return time.Now().Add(time.Hour) }
	got, err := s.Update(ctx, it.ID, input(t, `{"name":null}`))
	require.NoError(t, err)
	assert.Equal(t, it.Name, got.Name)
	assert.Equal(t, it.UpdatedAt, got.UpdatedAt)
}

func TestUpdateFields(t *testing.T) {
	s, _ := newItems()
	ctx := context.Background()
	it, err := s.Create(ctx, input(t, `{"name":"a","price":1,"description":"d","imageUrl":"u","category":"Kitchen"}`))
	require.NoError(t, err)

	got, err := s.Update(ctx, it.ID, input(t, `{"price":9.5,"imageUrl":"v","category":""}`))
	require.NoError(t, err)
	assert.Equal(t, 9.5, got.Price)
	assert.Equal(t, []string{"v"}, got.ImageURLs)
	assert.Empty(t, got.Category)
	assert.Equal(t, "a", got.Name)

	_, err = s.Update(ctx, it.ID, input(t, `{"price":-3,"name":""}`))
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []string{"price", "name"}, ve.Fields)
}

func TestItemIDErrors(t *testing.T) {
	s, _ := newItems()
	ctx := context.Background()

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	assert.ErrorIs(t, s.Delete(ctx, "123"), domain.ErrInvalidID)

	missing := utils.NewID()
	_, err = s.Get(ctx, missing)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, missing), domain.ErrNotFound)
	_, err = s.Update(ctx, missing, input(t, `{"name":"x"}`))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	s, r := newItems()
	ctx := context.Background()
	base := time.Now()
	var ids []string
	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		r.Now = func() time.Time { return at }
		it, err := s.Create(ctx, input(t, kettle))
		require.NoError(t, err)
		ids = append(ids, it.ID)
	}

	first, more, err := s.List(ctx, domain.Page{Number: 1, Size: 2})
	require.NoError(t, err)
	assert.True(t, more)
	require.Len(t, first, 2)
	assert.Equal(t, ids[4], first[0].ID)
	assert.Equal(t, ids[3], first[1].ID)

	second, more, err := s.List(ctx, domain.Page{Number: 2, Size: 2})
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, ids[2], second[0].ID)
	assert.Equal(t, ids[1], second[1].ID)

	last, more, err := s.List(ctx, domain.Page{Number: 3, Size: 2})
	require.NoError(t, err)
	assert.False(t, more)
	assert.Len(t, last, 1)
}

func TestNormalizePage(t *testing.T) {
	assert.Equal(t, domain.Page{Number: 1, Size: DefaultPageSize}, NormalizePage(0, 0))
	assert.Equal(t, domain.Page{Number: 3, Size: MaxPageSize}, NormalizePage(3, 1000))

	for _, n := range []int{math.MaxInt, 4611686018427387904} {
		for _, size := range []int{1, DefaultPageSize, MaxPageSize} {
			p := NormalizePage(n, size)
			assert.GreaterOrEqual(t, p.Offset(), 0)
			assert.LessOrEqual(t, p.Offset(), math.MaxInt32)
		}
	}
}

func TestItemViewJSON(t *testing.T) {
	at := time.Date(2024, 5, 1, 8, 30, 0, 0, time.FixedZone("PHT", 8*3600))
	b, err := json.Marshal(NewItemView(&domain.Item{ID: "x", Name: "n", Stock: -1, CreatedAt: at, UpdatedAt: at}))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.NotContains(t, m, "category")
	assert.Equal(t, []any{}, m["imageUrl"])
	assert.Equal(t, float64(0), m["stock"])
	assert.Equal(t, "2024-05-01T00:30:00.000Z", m["createdAt"])
}
