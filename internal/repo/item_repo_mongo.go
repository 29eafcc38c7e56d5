package repo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/domain"
)

const itemCollection = "items"

// imageURLs 兼容历史数据：imageUrl 可能是单个字符串，也可能是字符串数组
type imageURLs []string

func (u *imageURLs) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*u = nil
	case bsontype.String:
		*u = nil
		if s := strings.TrimSpace(rv.StringValue()); s != "" {
			*u = imageURLs{s}
		}
	case bsontype.Array:
		vals, err := rv.Array().Values()
		if err != nil {
			return err
		}
		out := make(imageURLs, 0, len(vals))
		for _, v := range vals {
			if s, ok := v.StringValueOK(); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		*u = out
	default:
		return fmt.Errorf("imageUrl: unexpected bson type %s", t)
	}
	return nil
}

type itemDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Price       float64            `bson:"price"`
	Description string             `bson:"description"`
	ImageURL    imageURLs          `bson:"imageUrl"`
	Category    string             `bson:"category,omitempty"`
	Stock       *float64           `bson:"stock,omitempty"` // 旧文档可能缺失
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *itemDoc) toDomain() domain.Item {
	it := domain.Item{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Price:       d.Price,
		Description: d.Description,
		ImageURLs:   []string(d.ImageURL),
		Category:    d.Category,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if it.ImageURLs == nil {
		it.ImageURLs = []string{}
	}
	if d.Stock != nil && *d.Stock > 0 {
		// 旧文档可能存了超大值；与写入侧一致截到 int32 上限
		it.Stock = int(math.Min(*d.Stock, math.MaxInt32))
	}
	return it
}

type ItemRepoMongo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewItemRepoMongo(db *mongo.Database) *ItemRepoMongo {
	return &ItemRepoMongo{col: db.Collection(itemCollection), now: time.Now}
}

// EnsureIndexes 列表按 createdAt 倒序
func (r *ItemRepoMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
	})
	return err
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}

func (r *ItemRepoMongo) Create(ctx context.Context, it *domain.Item) error {
	now := r.now().UTC().Truncate(time.Millisecond)
	stock := float64(it.Stock)
	doc := itemDoc{
		ID:          primitive.NewObjectID(),
		Name:        it.Name,
		Price:       it.Price,
		Description: it.Description,
		ImageURL:    imageURLs(it.ImageURLs),
		Category:    it.Category,
		Stock:       &stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	it.ID = doc.ID.Hex()
	it.CreatedAt, it.UpdatedAt = now, now
	return nil
}

func (r *ItemRepoMongo) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc itemDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find item: %w", err)
	}
	it := doc.toDomain()
	return &it, nil
}

func (r *ItemRepoMongo) List(ctx context.Context, offset, limit int) ([]domain.Item, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(max(offset, 0))).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	var docs []itemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	out := make([]domain.Item, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func patchToUpdate(p domain.ItemPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	unset := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.ImageURLs != nil {
		set["imageUrl"] = p.ImageURLs
	}
	if p.Category != nil {
		if *p.Category == "" {
			unset["category"] = ""
		} else {
			set["category"] = *p.Category
		}
	}
	if p.Stock != nil {
		set["stock"] = float64(*p.Stock)
	}
	upd := bson.M{"$set": set}
	if len(unset) > 0 {
		upd["$unset"] = unset
	}
	return upd
}

// Update 单文档 findOneAndUpdate，返回更新后的文档
func (r *ItemRepoMongo) Update(ctx context.Context, id string, p domain.ItemPatch) (*domain.Item, error) {
	if p.Empty() {
		return r.FindByID(ctx, id)
	}
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc itemDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, patchToUpdate(p, r.now().UTC().Truncate(time.Millisecond)), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	it := doc.toDomain()
	return &it, nil
}

func (r *ItemRepoMongo) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
