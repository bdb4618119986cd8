package store

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ref addresses an entity by either its canonical ObjectID or its slug.
// It is the decoded form of a `{id}` path segment, which clients may fill
// with either representation interchangeably.
type Ref struct {
	id   primitive.ObjectID
	slug string
}

// ParseRef classifies a path segment as an ObjectID or a slug. The
// classification is purely syntactic: a 24-character hex string becomes an
// id ref, anything else (including the empty string) becomes a slug ref.
// Existence is not checked here; a segment that matches nothing simply
// yields a not-found from the subsequent lookup.
func ParseRef(pathSegment string) Ref {
	if id, err := primitive.ObjectIDFromHex(pathSegment); err == nil {
		return Ref{id: id}
	}
	return Ref{slug: pathSegment}
}

// RefForID builds a Ref from an already-canonical ObjectID.
func RefForID(id primitive.ObjectID) Ref {
	return Ref{id: id}
}

// IsID reports whether the ref addresses by canonical ObjectID.
func (r Ref) IsID() bool {
	return !r.id.IsZero()
}

// ID returns the ObjectID for an id ref, or the zero ObjectID otherwise.
func (r Ref) ID() primitive.ObjectID {
	return r.id
}

// Slug returns the slug for a slug ref, or the empty string otherwise.
func (r Ref) Slug() string {
	return r.slug
}

// String returns the original path segment form of the ref.
func (r Ref) String() string {
	if r.IsID() {
		return r.id.Hex()
	}
	return r.slug
}

// ListOptions controls pagination for list operations. A zero Limit means
// no limit.
type ListOptions struct {
	Offset int64
	Limit  int64
}
