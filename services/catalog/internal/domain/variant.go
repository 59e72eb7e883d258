package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Variant is a purchasable variation of a product, identified by a SKU
// unique within the product. Options maps the product's attribute names to
// concrete values, e.g. {"Color": "Red", "Size": "M"}.
type Variant struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID     primitive.ObjectID `bson:"product_id" json:"product_id"`
	SKU           string             `bson:"sku" json:"sku"`
	Options       map[string]string  `bson:"options,omitempty" json:"options,omitempty"`
	BaseUnit      string             `bson:"base_unit" json:"base_unit"`
	Price         Money              `bson:"price" json:"price"`
	VariantImages []Image            `bson:"variant_images" json:"variant_images"`
	IsActive      bool               `bson:"is_active" json:"is_active"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
