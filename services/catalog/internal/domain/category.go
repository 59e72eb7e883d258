package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is a node in the category tree. Ancestors is the denormalized
// path from the root down to (excluding) this node, maintained on create so
// subtree queries are a single indexed filter. Deleting a parent does not
// cascade; orphaned children keep their stale parent reference.
type Category struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name           string               `bson:"name" json:"name"`
	Slug           string               `bson:"slug" json:"slug"`
	Description    string               `bson:"description,omitempty" json:"description,omitempty"`
	ParentCategory *primitive.ObjectID  `bson:"parent_category,omitempty" json:"parent_category"`
	Ancestors      []primitive.ObjectID `bson:"ancestors" json:"ancestors"`
	IsActive       bool                 `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updated_at"`
}

// CategoryNode is a category with its resolved children, returned by the
// subtree endpoint.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}
