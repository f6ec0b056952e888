package role

import (
	"context"

	"go-hr/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	FindByID(ctx context.Context, id int64) (*Role, error)
	FindAll(ctx context.Context) ([]Role, error)
	Update(ctx context.Context, id int64, role *Role) error
	Delete(ctx context.Context, id int64) error
}

type RoleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRoleRepository(mongodb *database.MongodbDB) RoleRepository {
	return &RoleRepositoryImpl{
		Collection: mongodb.DB.Collection("roles"),
	}
}

func (r *RoleRepositoryImpl) Create(ctx context.Context, role *Role) error {
	_, err := r.Collection.InsertOne(ctx, role)
	return err
}

func (r *RoleRepositoryImpl) FindByID(ctx context.Context, id int64) (*Role, error) {
	var role Role
	err := r.Collection.FindOne(ctx, bson.M{"id": id}).Decode(&role)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) FindAll(ctx context.Context) ([]Role, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var roles []Role
	if err = cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *RoleRepositoryImpl) Update(ctx context.Context, id int64, role *Role) error {
	update := bson.M{
		"$set": bson.M{
			"name":        role.Name,
			"description": role.Description,
			"permissions": role.Permissions,
			"updated_at":  role.UpdatedAt,
		},
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"id": id}, update)
	return err
}

func (r *RoleRepositoryImpl) Delete(ctx context.Context, id int64) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"id": id})
	return err
}
