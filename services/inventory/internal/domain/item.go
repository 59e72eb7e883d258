// Package domain defines the inventory service entities.
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status of an inventory batch.
type Status string

const (
	StatusSealed   Status = "Sealed"
	StatusUnsealed Status = "Unsealed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusSealed || s == StatusUnsealed
}

// Money is an amount in minor units with a 3-letter ISO currency code.
type Money struct {
	Amount   int64  `bson:"amount" json:"amount"`
	Currency string `bson:"currency" json:"currency"`
}

// ManufacturingDetails carries batch provenance dates.
type ManufacturingDetails struct {
	MfgDate time.Time `bson:"mfg_date" json:"mfg_date"`
	ExpDate time.Time `bson:"exp_date" json:"exp_date"`
}

// InventoryItem is one stock batch of a variant. (variant_id, batch_number)
// is unique.
type InventoryItem struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	VariantID            primitive.ObjectID   `bson:"variant_id" json:"variant_id"`
	BatchNumber          string               `bson:"batch_number,omitempty" json:"batch_number,omitempty"`
	StockInBaseUnits     int64                `bson:"stock_in_base_units" json:"stock_in_base_units"`
	PricePerBaseUnit     Money                `bson:"price_per_base_unit" json:"price_per_base_unit"`
	Status               Status               `bson:"status" json:"status"`
	ManufacturingDetails ManufacturingDetails `bson:"manufacturing_details" json:"manufacturing_details"`
	HSNCode              string               `bson:"hsn_code,omitempty" json:"hsn_code,omitempty"`
	GSTPercentage        float64              `bson:"gst_percentage" json:"gst_percentage"`
	IsActive             bool                 `bson:"is_active" json:"is_active"`
	CreatedAt            time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time            `bson:"updated_at" json:"updated_at"`
}

// VariantInfo is the slice of the joined variant projected into search
// results.
type VariantInfo struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	SKU      string             `bson:"sku" json:"sku"`
	Options  map[string]string  `bson:"options" json:"options"`
	BaseUnit string             `bson:"base_unit" json:"base_unit"`
}

// ProductInfo is the slice of the joined product projected into search
// results.
type ProductInfo struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Brand    string             `bson:"brand" json:"brand"`
	SellerID primitive.ObjectID `bson:"seller_id" json:"seller_id"`
}

// EnrichedItem is an inventory item with its joined variant and product.
// Either join may be nil when the referenced document is gone.
type EnrichedItem struct {
	InventoryItem `bson:",inline"`

	Variant *VariantInfo `bson:"variant,omitempty" json:"variant,omitempty"`
	Product *ProductInfo `bson:"product,omitempty" json:"product,omitempty"`
}
