package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// findIDBySlug is the shared implementation of the slug generator's
// uniqueness probe: fetch only the id of the document holding a slug.
func findIDBySlug(ctx context.Context, coll *mongo.Collection, slug string) (primitive.ObjectID, bool, error) {
	var doc struct {
		ID primitive.ObjectID `bson:"_id"`
	}

	err := coll.FindOne(
		ctx,
		bson.M{"slug": slug},
		options.FindOne().SetProjection(bson.M{"_id": 1}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return primitive.NilObjectID, false, nil
		}
		return primitive.NilObjectID, false, fmt.Errorf("failed to probe slug %q: %w", slug, err)
	}

	return doc.ID, true, nil
}
