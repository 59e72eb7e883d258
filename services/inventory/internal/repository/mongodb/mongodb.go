// Package mongodb implements the inventory repository on the document
// store. Inventory shares a database with the catalog service so the
// search aggregation can join the variants and products collections
// directly.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names. collVariants and collProducts are owned by the
// catalog service; inventory only reads them.
const (
	collItems    = "inventory_items"
	collVariants = "variants"
	collProducts = "products"
)

// EnsureIndexes declares the inventory indexes. The partial unique index
// on (variant_id, batch_number) enforces batch uniqueness under
// concurrent writes while still allowing any number of batch-less items
// per variant.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(collItems).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "variant_id", Value: 1}, {Key: "batch_number", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{
					{Key: "batch_number", Value: bson.D{{Key: "$type", Value: "string"}}},
				}),
		},
		{Keys: bson.D{{Key: "variant_id", Value: 1}}},
		{Keys: bson.D{{Key: "manufacturing_details.exp_date", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create inventory indexes: %w", err)
	}
	return nil
}
