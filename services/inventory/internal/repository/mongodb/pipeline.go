package mongodb

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/itsGurdevSingh/UrbanPocket/services/inventory/internal/repository"
)

// clause is one predicate of a match stage: a field path, an operator, and
// an already-coerced value. A match stage is assembled from whichever
// clauses the filter set produces; each filter is independently omittable.
type clause struct {
	field string
	op    string // "$eq", "$regex", "$gt", "$gte", "$lte"
	value any
}

func (c clause) bson() bson.E {
	if c.op == "$eq" {
		return bson.E{Key: c.field, Value: c.value}
	}
	if c.op == "$regex" {
		return bson.E{Key: c.field, Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(c.value.(string))},
			{Key: "$options", Value: "i"},
		}}
	}
	return bson.E{Key: c.field, Value: bson.D{{Key: c.op, Value: c.value}}}
}

// matchStage folds clauses into a single $match document, merging range
// operators that target the same field.
func matchStage(clauses []clause) bson.D {
	match := bson.D{}
	merged := map[string]bson.D{}
	order := []string{}

	for _, c := range clauses {
		if c.op == "$eq" || c.op == "$regex" {
			match = append(match, c.bson())
			continue
		}
		if _, ok := merged[c.field]; !ok {
			order = append(order, c.field)
		}
		merged[c.field] = append(merged[c.field], bson.E{Key: c.op, Value: c.value})
	}
	for _, field := range order {
		match = append(match, bson.E{Key: field, Value: merged[field]})
	}
	return match
}

// preJoinClauses builds predicates over the item's own fields.
func preJoinClauses(f repository.SearchFilters, now time.Time) []clause {
	var cs []clause
	if f.VariantID != nil {
		cs = append(cs, clause{"variant_id", "$eq", *f.VariantID})
	}
	if f.BatchNumber != nil {
		cs = append(cs, clause{"batch_number", "$regex", *f.BatchNumber})
	}
	if f.IsActive != nil {
		cs = append(cs, clause{"is_active", "$eq", *f.IsActive})
	}
	if f.InStock != nil {
		if *f.InStock {
			cs = append(cs, clause{"stock_in_base_units", "$gt", int64(0)})
		} else {
			cs = append(cs, clause{"stock_in_base_units", "$lte", int64(0)})
		}
	}
	if f.MinPrice != nil {
		cs = append(cs, clause{"price_per_base_unit.amount", "$gte", *f.MinPrice})
	}
	if f.MaxPrice != nil {
		cs = append(cs, clause{"price_per_base_unit.amount", "$lte", *f.MaxPrice})
	}
	if f.MinStock != nil {
		cs = append(cs, clause{"stock_in_base_units", "$gte", *f.MinStock})
	}
	if f.MaxStock != nil {
		cs = append(cs, clause{"stock_in_base_units", "$lte", *f.MaxStock})
	}
	if f.MfgDateFrom != nil {
		cs = append(cs, clause{"manufacturing_details.mfg_date", "$gte", *f.MfgDateFrom})
	}
	if f.MfgDateTo != nil {
		cs = append(cs, clause{"manufacturing_details.mfg_date", "$lte", *f.MfgDateTo})
	}
	if f.ExpDateFrom != nil {
		cs = append(cs, clause{"manufacturing_details.exp_date", "$gte", *f.ExpDateFrom})
	}
	if f.ExpDateTo != nil {
		cs = append(cs, clause{"manufacturing_details.exp_date", "$lte", *f.ExpDateTo})
	}
	if f.ExcludeExpired {
		cs = append(cs, clause{"manufacturing_details.exp_date", "$gte", now})
	}
	return cs
}

// postJoinClauses builds predicates over fields that exist only after the
// variant and product joins. They can only narrow the pre-join result.
func postJoinClauses(f repository.SearchFilters) []clause {
	var cs []clause
	if f.ProductName != nil {
		cs = append(cs, clause{"product.name", "$regex", *f.ProductName})
	}
	if f.SKU != nil {
		cs = append(cs, clause{"variant.sku", "$regex", *f.SKU})
	}
	if f.SellerID != nil {
		cs = append(cs, clause{"product.seller_id", "$eq", *f.SellerID})
	}
	return cs
}

// sortKeys maps the public sort names onto document fields.
var sortKeys = map[string]string{
	repository.SortByPrice:     "price_per_base_unit.amount",
	repository.SortByStock:     "stock_in_base_units",
	repository.SortByCreatedAt: "created_at",
	repository.SortByUpdatedAt: "updated_at",
	repository.SortByExpDate:   "manufacturing_details.exp_date",
	repository.SortByMfgDate:   "manufacturing_details.mfg_date",
}

// sortStage resolves the sort key and direction. Unknown keys fall back to
// created_at descending.
func sortStage(sortBy, sortOrder string) bson.D {
	field, ok := sortKeys[sortBy]
	if !ok {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	direction := -1
	if sortOrder == "asc" {
		direction = 1
	}
	return bson.D{{Key: field, Value: direction}}
}

func lookupStage(from, localField, foreignField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
	}}}
}

func unwindStage(path string) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: path},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
}

// itemProjection trims the joined documents to the published shape.
var itemProjection = bson.D{{Key: "$project", Value: bson.D{
	{Key: "variant._id", Value: 1},
	{Key: "variant.sku", Value: 1},
	{Key: "variant.options", Value: 1},
	{Key: "variant.base_unit", Value: 1},
	{Key: "product._id", Value: 1},
	{Key: "product.name", Value: 1},
	{Key: "product.brand", Value: 1},
	{Key: "product.seller_id", Value: 1},
	{Key: "variant_id", Value: 1},
	{Key: "batch_number", Value: 1},
	{Key: "stock_in_base_units", Value: 1},
	{Key: "price_per_base_unit", Value: 1},
	{Key: "status", Value: 1},
	{Key: "manufacturing_details", Value: 1},
	{Key: "hsn_code", Value: 1},
	{Key: "gst_percentage", Value: 1},
	{Key: "is_active", Value: 1},
	{Key: "created_at", Value: 1},
	{Key: "updated_at", Value: 1},
}}}

// BuildSearchPipeline assembles the staged aggregation: pre-join match,
// variant and product lookups, post-join match, sort, then a $facet that
// pages items and counts the total in one pass so total never depends on
// skip/limit.
func BuildSearchPipeline(input repository.SearchInput, now time.Time) mongo.Pipeline {
	pipeline := mongo.Pipeline{}

	if pre := matchStage(preJoinClauses(input.Filters, now)); len(pre) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: pre}})
	}

	pipeline = append(pipeline,
		lookupStage(collVariants, "variant_id", "_id", "variant"),
		unwindStage("$variant"),
		lookupStage(collProducts, "variant.product_id", "_id", "product"),
		unwindStage("$product"),
	)

	if post := matchStage(postJoinClauses(input.Filters)); len(post) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: post}})
	}

	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sortStage(input.SortBy, input.SortOrder)}})

	skip := int64(input.Page-1) * int64(input.Limit)
	pipeline = append(pipeline, bson.D{{Key: "$facet", Value: bson.D{
		{Key: "items", Value: bson.A{
			bson.D{{Key: "$skip", Value: skip}},
			bson.D{{Key: "$limit", Value: int64(input.Limit)}},
			itemProjection,
		}},
		{Key: "total", Value: bson.A{
			bson.D{{Key: "$count", Value: "count"}},
		}},
	}}})

	return pipeline
}
