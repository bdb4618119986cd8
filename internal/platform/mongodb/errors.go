package mongodb

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/matthewaubert/horizons-api/internal/store"
)

// refFilter builds the lookup filter for a dual id-or-slug reference.
func refFilter(ref store.Ref) bson.M {
	if ref.IsID() {
		return bson.M{"_id": ref.ID()}
	}
	return bson.M{"slug": ref.Slug()}
}

// mapDuplicateError translates a MongoDB duplicate-key error into the
// field-specific store sentinel, based on which unique index rejected the
// write. Returns nil when err is not a duplicate-key error.
func mapDuplicateError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "email_1"):
		return store.ErrEmailExists
	case strings.Contains(msg, "username_1"):
		return store.ErrUsernameExists
	case strings.Contains(msg, "slug_1"):
		return store.ErrSlugExists
	case strings.Contains(msg, "name_1"):
		return store.ErrNameExists
	default:
		return store.ErrDuplicate
	}
}
