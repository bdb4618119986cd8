package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matthewaubert/horizons-api/internal/domain"
	"github.com/matthewaubert/horizons-api/internal/platform/logger"
	"github.com/matthewaubert/horizons-api/internal/store"
)

// CommentStore implements store.CommentStore on a MongoDB collection.
type CommentStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// Ensure CommentStore implements the store.CommentStore interface
var _ store.CommentStore = (*CommentStore)(nil)

// NewCommentStore creates a CommentStore backed by the comments collection.
func NewCommentStore(db *mongo.Database, logger *slog.Logger) *CommentStore {
	return &CommentStore{
		coll:   db.Collection(commentsCollection),
		logger: logger,
	}
}

// Create implements store.CommentStore.Create.
func (s *CommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		return err
	}

	if _, err := s.coll.InsertOne(ctx, comment); err != nil {
		log.Error("failed to create comment", "error", err)
		return fmt.Errorf("failed to create comment: %w", err)
	}

	log.Debug("comment created",
		"comment_id", comment.ID.Hex(),
		"post_id", comment.Post.Hex())
	return nil
}

// GetByID implements store.CommentStore.GetByID. The filter carries both the
// comment id and the parent post id so a comment can never be addressed
// through another post's route.
func (s *CommentStore) GetByID(ctx context.Context, id, postID primitive.ObjectID) (*domain.Comment, error) {
	var comment domain.Comment
	err := s.coll.FindOne(ctx, bson.M{"_id": id, "post": postID}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment %s: %w", id.Hex(), err)
	}
	return &comment, nil
}

// ListByPost implements store.CommentStore.ListByPost.
func (s *CommentStore) ListByPost(
	ctx context.Context,
	postID primitive.ObjectID,
	opts store.ListOptions,
) ([]*domain.Comment, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if opts.Offset > 0 {
		findOpts.SetSkip(opts.Offset)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := s.coll.Find(ctx, bson.M{"post": postID}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var comments []*domain.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}

// Replace implements store.CommentStore.Replace.
func (s *CommentStore) Replace(ctx context.Context, comment *domain.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}

	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": comment.ID}, comment)
	if err != nil {
		return fmt.Errorf("failed to replace comment %s: %w", comment.ID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return store.ErrCommentNotFound
	}
	return nil
}

// Delete implements store.CommentStore.Delete.
func (s *CommentStore) Delete(ctx context.Context, id, postID primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id, "post": postID})
	if err != nil {
		return fmt.Errorf("failed to delete comment %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return store.ErrCommentNotFound
	}
	return nil
}

// GetOwner implements store.CommentStore.GetOwner. Only the owner edge is
// fetched; the ownership guard needs nothing else.
func (s *CommentStore) GetOwner(ctx context.Context, id primitive.ObjectID) (primitive.ObjectID, error) {
	var doc struct {
		User primitive.ObjectID `bson:"user"`
	}

	err := s.coll.FindOne(
		ctx,
		bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"user": 1}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return primitive.NilObjectID, store.ErrCommentNotFound
		}
		return primitive.NilObjectID, fmt.Errorf("failed to find comment owner %s: %w", id.Hex(), err)
	}

	return doc.User, nil
}
