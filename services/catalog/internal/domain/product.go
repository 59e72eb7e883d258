package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image is an uploaded media asset referenced by a product or variant.
type Image struct {
	FileID  string `bson:"file_id" json:"file_id"`
	URL     string `bson:"url" json:"url"`
	AltText string `bson:"alt_text,omitempty" json:"alt_text,omitempty"`
}

// Rating is the denormalized review aggregate stored on a product. It is
// written only by the review flow.
type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int64   `bson:"count" json:"count"`
}

// Money is an amount in minor units with a 3-letter ISO currency code.
type Money struct {
	Amount   int64  `bson:"amount" json:"amount"`
	Currency string `bson:"currency" json:"currency"`
}

// Product is a catalog product owned by a seller. Name is unique per seller.
type Product struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Slug        string              `bson:"slug" json:"slug"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Brand       string              `bson:"brand,omitempty" json:"brand,omitempty"`
	SellerID    primitive.ObjectID  `bson:"seller_id" json:"seller_id"`
	CategoryID  *primitive.ObjectID `bson:"category_id,omitempty" json:"category_id,omitempty"`
	Attributes  []string            `bson:"attributes,omitempty" json:"attributes,omitempty"`
	Rating      Rating              `bson:"rating" json:"rating"`
	BaseImages  []Image             `bson:"base_images" json:"base_images"`
	IsActive    bool                `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}
