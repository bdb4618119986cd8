package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matthewaubert/horizons-api/internal/domain"
)

// PostStore defines the interface for post data persistence.
type PostStore interface {
	// Create saves a new post to the store.
	// Returns ErrSlugExists if the slug is already taken.
	Create(ctx context.Context, post *domain.Post) error

	// GetByRef retrieves a post addressed by id or slug.
	// Returns ErrPostNotFound if the post does not exist.
	GetByRef(ctx context.Context, ref Ref) (*domain.Post, error)

	// List retrieves posts ordered by id.
	List(ctx context.Context, opts ListOptions) ([]*domain.Post, error)

	// Replace overwrites the stored post identified by post.ID.
	// Returns ErrPostNotFound if the post does not exist and ErrSlugExists
	// if the slug collides.
	Replace(ctx context.Context, post *domain.Post) error

	// Delete removes a post addressed by id or slug.
	// Returns ErrPostNotFound if the post does not exist.
	Delete(ctx context.Context, ref Ref) error

	// GetOwner returns the author id of the post addressed by ref, fetching
	// only the owner edge. Returns ErrPostNotFound if the post does not
	// exist.
	GetOwner(ctx context.Context, ref Ref) (primitive.ObjectID, error)

	// FindIDBySlug looks up the id of the post holding the given slug.
	// The found flag is false when no post holds it.
	FindIDBySlug(ctx context.Context, slug string) (primitive.ObjectID, bool, error)
}
