package apptype

import (
	"context"

	"go-hr/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TypeRepository interface {
	Create(ctx context.Context, t *ApplicationType) error
	FindByID(ctx context.Context, id int64) (*ApplicationType, error)
	FindAll(ctx context.Context) ([]ApplicationType, error)
	Update(ctx context.Context, id int64, t *ApplicationType) error
	Delete(ctx context.Context, id int64) error
}

type TypeRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewTypeRepository(mongodb *database.MongodbDB) TypeRepository {
	return &TypeRepositoryImpl{
		Collection: mongodb.DB.Collection("application_types"),
	}
}

func (r *TypeRepositoryImpl) Create(ctx context.Context, t *ApplicationType) error {
	_, err := r.Collection.InsertOne(ctx, t)
	return err
}

func (r *TypeRepositoryImpl) FindByID(ctx context.Context, id int64) (*ApplicationType, error) {
	var t ApplicationType
	err := r.Collection.FindOne(ctx, bson.M{"id": id}).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TypeRepositoryImpl) FindAll(ctx context.Context) ([]ApplicationType, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var types []ApplicationType
	if err = cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *TypeRepositoryImpl) Update(ctx context.Context, id int64, t *ApplicationType) error {
	update := bson.M{
		"$set": bson.M{
			"name":             t.Name,
			"description":      t.Description,
			"flow":             t.Flow,
			"fields":           t.Fields,
			"capabilities":     t.Capabilities,
			"sla_per_step":     t.SLAPerStep,
			"allowed_role_ids": t.AllowedRoleIDs,
			"updated_at":       t.UpdatedAt,
		},
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"id": id}, update)
	return err
}

func (r *TypeRepositoryImpl) Delete(ctx context.Context, id int64) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"id": id})
	return err
}
