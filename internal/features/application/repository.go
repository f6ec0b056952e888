package application

import (
	"context"

	"go-hr/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BundleRepository is the snapshot boundary of the engine: load everything,
// write everything back. One document per bundle, keyed by application id.
type BundleRepository interface {
	FindAll(ctx context.Context) ([]ApplicationBundle, error)
	SaveAll(ctx context.Context, bundles []ApplicationBundle) error
	Save(ctx context.Context, bundle ApplicationBundle) error
}

type BundleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewBundleRepository(mongodb *database.MongodbDB) BundleRepository {
	return &BundleRepositoryImpl{
		Collection: mongodb.DB.Collection("applications"),
	}
}

func (r *BundleRepositoryImpl) FindAll(ctx context.Context) ([]ApplicationBundle, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"application.id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var bundles []ApplicationBundle
	if err = cursor.All(ctx, &bundles); err != nil {
		return nil, err
	}
	return bundles, nil
}

func (r *BundleRepositoryImpl) SaveAll(ctx context.Context, bundles []ApplicationBundle) error {
	if len(bundles) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(bundles))
	for _, bundle := range bundles {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"application.id": bundle.Application.ID}).
			SetReplacement(bundle).
			SetUpsert(true))
	}

	_, err := r.Collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}

func (r *BundleRepositoryImpl) Save(ctx context.Context, bundle ApplicationBundle) error {
	_, err := r.Collection.ReplaceOne(ctx,
		bson.M{"application.id": bundle.Application.ID},
		bundle,
		options.Replace().SetUpsert(true))
	return err
}
