package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matthewaubert/horizons-api/internal/domain"
	"github.com/matthewaubert/horizons-api/internal/platform/logger"
	"github.com/matthewaubert/horizons-api/internal/store"
)

// UserStore implements store.UserStore on a MongoDB collection.
type UserStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// Ensure UserStore implements the store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a UserStore backed by the users collection.
func NewUserStore(db *mongo.Database, logger *slog.Logger) *UserStore {
	return &UserStore{
		coll:   db.Collection(usersCollection),
		logger: logger,
	}
}

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return err
	}

	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		if dup := mapDuplicateError(err); dup != nil {
			return dup
		}
		log.Error("failed to create user", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Debug("user created", "user_id", user.ID.Hex(), "slug", user.Slug)
	return nil
}

// GetByRef implements store.UserStore.GetByRef.
func (s *UserStore) GetByRef(ctx context.Context, ref store.Ref) (*domain.User, error) {
	var user domain.User
	err := s.coll.FindOne(ctx, refFilter(ref)).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user %q: %w", ref, err)
	}
	return &user, nil
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

// List implements store.UserStore.List.
func (s *UserStore) List(ctx context.Context, opts store.ListOptions) ([]*domain.User, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if opts.Offset > 0 {
		findOpts.SetSkip(opts.Offset)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := s.coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var users []*domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// Replace implements store.UserStore.Replace.
func (s *UserStore) Replace(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if dup := mapDuplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to replace user %s: %w", user.ID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// SetVerified implements store.UserStore.SetVerified.
func (s *UserStore) SetVerified(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	update := bson.M{"$set": bson.M{
		"isVerified": true,
		"updatedAt":  time.Now().UTC(),
	}}

	result := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to verify user %s: %w", id.Hex(), err)
	}

	var user domain.User
	if err := result.Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode verified user: %w", err)
	}
	return &user, nil
}

// Delete implements store.UserStore.Delete.
func (s *UserStore) Delete(ctx context.Context, ref store.Ref) error {
	result, err := s.coll.DeleteOne(ctx, refFilter(ref))
	if err != nil {
		return fmt.Errorf("failed to delete user %q: %w", ref, err)
	}
	if result.DeletedCount == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// FindIDBySlug implements the slug generator's uniqueness probe.
func (s *UserStore) FindIDBySlug(ctx context.Context, slug string) (primitive.ObjectID, bool, error) {
	return findIDBySlug(ctx, s.coll, slug)
}
