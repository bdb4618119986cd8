package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matthewaubert/horizons-api/internal/domain"
)

// CategoryStore defines the interface for category data persistence.
type CategoryStore interface {
	// Create saves a new category to the store.
	// Returns ErrNameExists or ErrSlugExists on a unique-field collision.
	Create(ctx context.Context, category *domain.Category) error

	// GetByRef retrieves a category addressed by id or slug.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByRef(ctx context.Context, ref Ref) (*domain.Category, error)

	// List retrieves categories ordered by id.
	List(ctx context.Context, opts ListOptions) ([]*domain.Category, error)

	// Replace overwrites the stored category identified by category.ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	Replace(ctx context.Context, category *domain.Category) error

	// Delete removes a category addressed by id or slug.
	// Returns ErrCategoryNotFound if the category does not exist.
	Delete(ctx context.Context, ref Ref) error

	// Exists reports whether a category with the given id exists. Used to
	// validate the category edge on posts.
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)

	// FindIDBySlug looks up the id of the category holding the given slug.
	// The found flag is false when no category holds it.
	FindIDBySlug(ctx context.Context, slug string) (primitive.ObjectID, bool, error)
}
