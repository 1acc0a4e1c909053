package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/youcode/ebanking-api/internal/core/domain"
)

const roleCollection = "roles"

type MongoRoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{coll: db.Collection(roleCollection)}
}

type mongoRole struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

// EnsureIndexes creates the unique role-name index, which makes Save
// idempotent under concurrent startups.
func (r *MongoRoleRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create role name index: %w", err)
	}
	return nil
}

func (r *MongoRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var mr mongoRole
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: mr.ID.Hex(), Name: mr.Name}, nil
}

// Save inserts the role. When another process seeded the same name first, the
// existing record is returned instead of an error.
func (r *MongoRoleRepository) Save(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	_, err := r.coll.InsertOne(ctx, mongoRole{Name: role.Name})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.FindByName(ctx, role.Name)
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return r.FindByName(ctx, role.Name)
}
