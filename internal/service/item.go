package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/pkg/utils"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ItemView 对外序列化形态：imageUrl 恒为数组，未设置的 category 不输出
type ItemView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	ImageURL    []string `json:"imageUrl"`
	Category    string   `json:"category,omitempty"`
	Stock       int      `json:"stock"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func isoTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(isoMillis)
}

func NewItemView(it *domain.Item) ItemView {
	urls := it.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	stock := it.Stock
	if stock < 0 {
		stock = 0
	}
	return ItemView{
		ID:          it.ID,
		Name:        it.Name,
		Price:       it.Price,
		Description: it.Description,
		ImageURL:    urls,
		Category:    it.Category,
		Stock:       stock,
		CreatedAt:   isoTime(it.CreatedAt),
		UpdatedAt:   isoTime(it.UpdatedAt),
	}
}

func NewItemViews(items []domain.Item) []ItemView {
	out := make([]ItemView, 0, len(items))
	for i := range items {
		out = append(out, NewItemView(&items[i]))
	}
	return out
}

// NormalizePage 页码至少为 1；页大小缺省 20，上限 100。
// 页码上限保证 offset 不超过 int32，超出范围的页返回空列表而不是溢出。
func NormalizePage(number, size int) domain.Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if maxNumber := math.MaxInt32/size + 1; number > maxNumber {
		number = maxNumber
	}
	return domain.Page{Number: number, Size: size}
}

type ItemService struct {
	items domain.ItemRepository
	log   *zap.Logger
}

func NewItemService(items domain.ItemRepository, l *zap.Logger) *ItemService {
	return &ItemService{items: items, log: l}
}

// List 多取一条用来判断是否还有下一页
func (s *ItemService) List(ctx context.Context, p domain.Page) ([]domain.Item, bool, error) {
	p = NormalizePage(p.Number, p.Size)
	items, err := s.items.List(ctx, p.Offset(), p.Size+1)
	if err != nil {
		return nil, false, err
	}
	hasMore := len(items) > p.Size
	if hasMore {
		items = items[:p.Size]
	}
	return items, hasMore, nil
}

func (s *ItemService) Get(ctx context.Context, id string) (*domain.Item, error) {
	if !utils.ValidID(id) {
		return nil, domain.ErrInvalidID
	}
	return s.items.FindByID(ctx, id)
}

func (s *ItemService) Create(ctx context.Context, in ItemInput) (*domain.Item, error) {
	it, err := in.ForCreate()
	if err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, it); err != nil {
		return nil, err
	}
	s.log.Info("item created", zap.String("id", it.ID), zap.String("name", it.Name))
	return it, nil
}

// Update 空补丁不写库，直接返回当前商品
func (s *ItemService) Update(ctx context.Context, id string, in ItemInput) (*domain.Item, error) {
	if !utils.ValidID(id) {
		return nil, domain.ErrInvalidID
	}
	p, err := in.ForUpdate()
	if err != nil {
		return nil, err
	}
	if p.Empty() {
		return s.items.FindByID(ctx, id)
	}
	it, err := s.items.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.log.Info("item updated", zap.String("id", id))
	return it, nil
}

func (s *ItemService) Delete(ctx context.Context, id string) error {
	if !utils.ValidID(id) {
		return domain.ErrInvalidID
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("item deleted", zap.String("id", id))
	return nil
}
