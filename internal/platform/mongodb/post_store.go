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

// PostStore implements store.PostStore on a MongoDB collection.
type PostStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// Ensure PostStore implements the store.PostStore interface
var _ store.PostStore = (*PostStore)(nil)

// NewPostStore creates a PostStore backed by the posts collection.
func NewPostStore(db *mongo.Database, logger *slog.Logger) *PostStore {
	return &PostStore{
		coll:   db.Collection(postsCollection),
		logger: logger,
	}
}

// Create implements store.PostStore.Create.
func (s *PostStore) Create(ctx context.Context, post *domain.Post) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := post.Validate(); err != nil {
		return err
	}

	if _, err := s.coll.InsertOne(ctx, post); err != nil {
		if dup := mapDuplicateError(err); dup != nil {
			return dup
		}
		log.Error("failed to create post", "error", err)
		return fmt.Errorf("failed to create post: %w", err)
	}

	log.Debug("post created", "post_id", post.ID.Hex(), "slug", post.Slug)
	return nil
}

// GetByRef implements store.PostStore.GetByRef.
func (s *PostStore) GetByRef(ctx context.Context, ref store.Ref) (*domain.Post, error) {
	var post domain.Post
	err := s.coll.FindOne(ctx, refFilter(ref)).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post %q: %w", ref, err)
	}
	return &post, nil
}

// List implements store.PostStore.List.
func (s *PostStore) List(ctx context.Context, opts store.ListOptions) ([]*domain.Post, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if opts.Offset > 0 {
		findOpts.SetSkip(opts.Offset)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := s.coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var posts []*domain.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}

// Replace implements store.PostStore.Replace.
func (s *PostStore) Replace(ctx context.Context, post *domain.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		if dup := mapDuplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to replace post %s: %w", post.ID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return store.ErrPostNotFound
	}
	return nil
}

// Delete implements store.PostStore.Delete.
func (s *PostStore) Delete(ctx context.Context, ref store.Ref) error {
	result, err := s.coll.DeleteOne(ctx, refFilter(ref))
	if err != nil {
		return fmt.Errorf("failed to delete post %q: %w", ref, err)
	}
	if result.DeletedCount == 0 {
		return store.ErrPostNotFound
	}
	return nil
}

// GetOwner implements store.PostStore.GetOwner. Only the owner edge is
// fetched; the ownership guard needs nothing else.
func (s *PostStore) GetOwner(ctx context.Context, ref store.Ref) (primitive.ObjectID, error) {
	var doc struct {
		User primitive.ObjectID `bson:"user"`
	}

	err := s.coll.FindOne(
		ctx,
		refFilter(ref),
		options.FindOne().SetProjection(bson.M{"user": 1}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return primitive.NilObjectID, store.ErrPostNotFound
		}
		return primitive.NilObjectID, fmt.Errorf("failed to find post owner %q: %w", ref, err)
	}

	return doc.User, nil
}

// FindIDBySlug implements the slug generator's uniqueness probe.
func (s *PostStore) FindIDBySlug(ctx context.Context, slug string) (primitive.ObjectID, bool, error) {
	return findIDBySlug(ctx, s.coll, slug)
}
