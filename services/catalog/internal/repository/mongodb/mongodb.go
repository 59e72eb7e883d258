// Package mongodb implements the catalog repositories on the document store.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	collProducts   = "products"
	collVariants   = "variants"
	collCategories = "categories"
	collReviews    = "reviews"
)

// EnsureIndexes declares the uniqueness and search indexes the catalog
// relies on. Uniqueness checks in the service layer are advisory; these
// indexes are the actual guarantee under concurrent writes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(collProducts).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "seller_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "brand", Value: "text"},
				{Key: "description", Value: "text"},
			},
			Options: options.Index().SetWeights(bson.D{
				{Key: "name", Value: 10},
				{Key: "brand", Value: 5},
				{Key: "description", Value: 3},
			}),
		},
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create product indexes: %w", err)
	}

	_, err = db.Collection(collVariants).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "product_id", Value: 1}, {Key: "sku", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create variant indexes: %w", err)
	}

	_, err = db.Collection(collCategories).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "ancestors", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create category indexes: %w", err)
	}

	_, err = db.Collection(collReviews).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "product_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create review indexes: %w", err)
	}

	return nil
}
