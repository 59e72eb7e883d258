// Package service implements the inventory business logic. Every mutation
// walks the item's catalog parent chain: variant, then product, checking
// existence, ownership (admin bypasses) and active gating at each link.
package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
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
