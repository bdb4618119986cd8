package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matthewaubert/horizons-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists, ErrUsernameExists or ErrSlugExists if the
	// corresponding unique field is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByRef retrieves a user addressed by id or slug.
	// Returns ErrUserNotFound if the user does not exist.
	GetByRef(ctx context.Context, ref Ref) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List retrieves users ordered by id.
	List(ctx context.Context, opts ListOptions) ([]*domain.User, error)

	// Replace overwrites the stored user identified by user.ID with the
	// given document. Returns ErrUserNotFound if the user does not exist and
	// a duplicate error if a unique field collides.
	Replace(ctx context.Context, user *domain.User) error

	// SetVerified marks the user verified and returns the updated document.
	// Returns ErrUserNotFound if the user does not exist.
	SetVerified(ctx context.Context, id primitive.ObjectID) (*domain.User, error)

	// Delete removes a user addressed by id or slug.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, ref Ref) error

	// FindIDBySlug looks up the id of the user holding the given slug.
	// The found flag is false when no user holds it. Used by the slug
	// generator's uniqueness probe.
	FindIDBySlug(ctx context.Context, slug string) (primitive.ObjectID, bool, error)
}
