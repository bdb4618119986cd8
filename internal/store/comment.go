package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matthewaubert/horizons-api/internal/domain"
)

// CommentStore defines the interface for comment data persistence.
// Comments are always scoped to their parent post by canonical id; callers
// normalize a post slug to its id before querying.
type CommentStore interface {
	// Create saves a new comment to the store.
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID retrieves the comment with the given id belonging to the given
	// post. Returns ErrCommentNotFound if no such comment exists under that
	// post.
	GetByID(ctx context.Context, id, postID primitive.ObjectID) (*domain.Comment, error)

	// ListByPost retrieves the comments on the given post ordered by id.
	ListByPost(ctx context.Context, postID primitive.ObjectID, opts ListOptions) ([]*domain.Comment, error)

	// Replace overwrites the stored comment identified by comment.ID.
	// Returns ErrCommentNotFound if the comment does not exist.
	Replace(ctx context.Context, comment *domain.Comment) error

	// Delete removes the comment with the given id belonging to the given
	// post. Returns ErrCommentNotFound if no such comment exists.
	Delete(ctx context.Context, id, postID primitive.ObjectID) error

	// GetOwner returns the author id of the comment with the given id,
	// fetching only the owner edge. Returns ErrCommentNotFound if the
	// comment does not exist.
	GetOwner(ctx context.Context, id primitive.ObjectID) (primitive.ObjectID, error)
}
