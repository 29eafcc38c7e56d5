package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/domain"
)

const adminCollection = "users"

type adminDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"passwordHash,omitempty"`
	Password     string             `bson:"password,omitempty"` // 旧字段，同样存的是 bcrypt 哈希
	Role         string             `bson:"role"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d *adminDoc) toDomain() *domain.AdminAccount {
	hash := d.PasswordHash
	if hash == "" {
		hash = d.Password
	}
	return &domain.AdminAccount{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: hash,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type AdminRepoMongo struct{ col *mongo.Collection }

func NewAdminRepoMongo(db *mongo.Database) *AdminRepoMongo {
	return &AdminRepoMongo{col: db.Collection(adminCollection)}
}

// EnsureIndexes username 唯一
func (r *AdminRepoMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *AdminRepoMongo) FindByUsername(ctx context.Context, username string) (*domain.AdminAccount, error) {
	var doc adminDoc
	if err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AdminRepoMongo) HasAdmin(ctx context.Context) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"role": domain.RoleAdmin}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	return n > 0, nil
}

func (r *AdminRepoMongo) Create(ctx context.Context, a *domain.AdminAccount) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := adminDoc{
		ID:           primitive.NewObjectID(),
		Username:     a.Username,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	a.ID = doc.ID.Hex()
	a.CreatedAt, a.UpdatedAt = now, now
	return nil
}
