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

// CategoryStore implements store.CategoryStore on a MongoDB collection.
type CategoryStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// Ensure CategoryStore implements the store.CategoryStore interface
var _ store.CategoryStore = (*CategoryStore)(nil)

// NewCategoryStore creates a CategoryStore backed by the categories collection.
func NewCategoryStore(db *mongo.Database, logger *slog.Logger) *CategoryStore {
	return &CategoryStore{
		coll:   db.Collection(categoriesCollection),
		logger: logger,
	}
}

// Create implements store.CategoryStore.Create.
func (s *CategoryStore) Create(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		return err
	}

	if _, err := s.coll.InsertOne(ctx, category); err != nil {
		if dup := mapDuplicateError(err); dup != nil {
			return dup
		}
		log.Error("failed to create category", "error", err)
		return fmt.Errorf("failed to create category: %w", err)
	}

	log.Debug("category created", "category_id", category.ID.Hex(), "slug", category.Slug)
	return nil
}

// GetByRef implements store.CategoryStore.GetByRef.
func (s *CategoryStore) GetByRef(ctx context.Context, ref store.Ref) (*domain.Category, error) {
	var category domain.Category
	err := s.coll.FindOne(ctx, refFilter(ref)).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category %q: %w", ref, err)
	}
	return &category, nil
}

// List implements store.CategoryStore.List.
func (s *CategoryStore) List(ctx context.Context, opts store.ListOptions) ([]*domain.Category, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if opts.Offset > 0 {
		findOpts.SetSkip(opts.Offset)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := s.coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var categories []*domain.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return categories, nil
}

// Replace implements store.CategoryStore.Replace.
func (s *CategoryStore) Replace(ctx context.Context, category *domain.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}

	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		if dup := mapDuplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to replace category %s: %w", category.ID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return store.ErrCategoryNotFound
	}
	return nil
}

// Delete implements store.CategoryStore.Delete.
func (s *CategoryStore) Delete(ctx context.Context, ref store.Ref) error {
	result, err := s.coll.DeleteOne(ctx, refFilter(ref))
	if err != nil {
		return fmt.Errorf("failed to delete category %q: %w", ref, err)
	}
	if result.DeletedCount == 0 {
		return store.ErrCategoryNotFound
	}
	return nil
}

// Exists implements store.CategoryStore.Exists.
func (s *CategoryStore) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check category %s: %w", id.Hex(), err)
	}
	return count > 0, nil
}

// FindIDBySlug implements the slug generator's uniqueness probe.
func (s *CategoryStore) FindIDBySlug(ctx context.Context, slug string) (primitive.ObjectID, bool, error) {
	return findIDBySlug(ctx, s.coll, slug)
}
