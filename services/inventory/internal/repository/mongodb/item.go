package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/services/inventory/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/inventory/internal/repository"
)

// ItemRepository implements repository.ItemRepository on MongoDB.
type ItemRepository struct {
	coll *mongo.Collection
}

// NewItemRepository creates an item repository bound to the inventory
// collection.
func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{coll: db.Collection(collItems)}
}

// Create inserts the item and assigns its generated ID.
func (r *ItemRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	res, err := r.coll.InsertOne(ctx, item)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("DUPLICATE_BATCH_NUMBER",
				fmt.Sprintf("variant already has an inventory item for batch %q", item.BatchNumber))
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID fetches one inventory item.
func (r *ItemRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("INVENTORY_ITEM_NOT_FOUND", "inventory item", id.Hex())
		}
		return nil, fmt.Errorf("find inventory item: %w", err)
	}
	return &item, nil
}

// Update replaces the mutable fields of an existing item.
func (r *ItemRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "batch_number", Value: item.BatchNumber},
		{Key: "stock_in_base_units", Value: item.StockInBaseUnits},
		{Key: "price_per_base_unit", Value: item.PricePerBaseUnit},
		{Key: "status", Value: item.Status},
		{Key: "manufacturing_details", Value: item.ManufacturingDetails},
		{Key: "hsn_code", Value: item.HSNCode},
		{Key: "gst_percentage", Value: item.GSTPercentage},
		{Key: "updated_at", Value: item.UpdatedAt},
	}}}

	res, err := r.coll.UpdateByID(ctx, item.ID, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("DUPLICATE_BATCH_NUMBER",
				fmt.Sprintf("variant already has an inventory item for batch %q", item.BatchNumber))
		}
		return fmt.Errorf("update inventory item: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("INVENTORY_ITEM_NOT_FOUND", "inventory item", item.ID.Hex())
	}
	return nil
}

// Delete removes the item document.
func (r *ItemRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("INVENTORY_ITEM_NOT_FOUND", "inventory item", id.Hex())
	}
	return nil
}

// SetActive toggles the soft-delete flag and returns the updated document.
func (r *ItemRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*domain.InventoryItem, error) {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "is_active", Value: active}}}, {Key: "$currentDate", Value: bson.D{{Key: "updated_at", Value: true}}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item domain.InventoryItem
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFound("INVENTORY_ITEM_NOT_FOUND", "inventory item", id.Hex())
		}
		return nil, fmt.Errorf("set inventory item active: %w", err)
	}
	return &item, nil
}

// ExistsBatch reports whether the variant already has an item for the
// exact batch number.
func (r *ItemRepository) ExistsBatch(ctx context.Context, variantID primitive.ObjectID, batchNumber string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{
		{Key: "variant_id", Value: variantID},
		{Key: "batch_number", Value: batchNumber},
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count inventory items by batch: %w", err)
	}
	return n > 0, nil
}

// searchFacet is the shape the $facet stage produces: exactly one
// document with the paged items and a zero-or-one element count branch.
type searchFacet struct {
	Items []domain.EnrichedItem `bson:"items"`
	Total []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
}

// Search runs the join-and-filter aggregation.
func (r *ItemRepository) Search(ctx context.Context, input repository.SearchInput) (*repository.SearchResult, error) {
	pipeline := BuildSearchPipeline(input, time.Now().UTC())

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("search inventory: %w", err)
	}

	var facets []searchFacet
	if err := cursor.All(ctx, &facets); err != nil {
		return nil, fmt.Errorf("decode inventory search: %w", err)
	}
	if len(facets) == 0 {
		return &repository.SearchResult{Items: []domain.EnrichedItem{}}, nil
	}

	result := &repository.SearchResult{Items: facets[0].Items}
	if result.Items == nil {
		result.Items = []domain.EnrichedItem{}
	}
	// The count branch is empty when nothing matched.
	if len(facets[0].Total) > 0 {
		result.Total = facets[0].Total[0].Count
	}
	return result, nil
}
