// Package service implements the catalog business logic. Every mutating
// operation follows the same guard sequence: authenticated actor, load the
// target and its parent chain, ownership (admin bypasses), active gating,
// entity rules, then persist.
package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/services/catalog/internal/domain"
)

// requireActor returns the authenticated actor and its id parsed as an
// ObjectID.
func requireActor(ctx context.Context) (*middleware.Actor, primitive.ObjectID, error) {
	actor, err := middleware.RequireActor(ctx)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	id, err := primitive.ObjectIDFromHex(actor.ID)
	if err != nil {
		return nil, primitive.NilObjectID, apperrors.Unauthorized("invalid actor identity")
	}
	return actor, id, nil
}

// parseID converts a route parameter into an ObjectID or a 400.
func parseID(raw, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation(
			field+" is not a valid id",
			apperrors.FieldError{Field: field, Message: "must be a valid object id"},
		)
	}
	return id, nil
}

// parseOptionalID converts an optional filter value. Empty means absent.
func parseOptionalID(raw *string, field string) (*primitive.ObjectID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := parseID(*raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// requireProductOwner enforces that the actor owns the product. Admins
// bypass ownership.
func requireProductOwner(actor *middleware.Actor, actorID primitive.ObjectID, p *domain.Product) error {
	if actor.Role == middleware.RoleAdmin {
		return nil
	}
	if p.SellerID != actorID {
		return apperrors.Forbidden("FORBIDDEN_NOT_OWNER", "you do not own this product")
	}
	return nil
}

// requireActiveProduct rejects mutations under an inactive product.
func requireActiveProduct(p *domain.Product) error {
	if !p.IsActive {
		return apperrors.Conflict("PRODUCT_INACTIVE", "product is disabled")
	}
	return nil
}
