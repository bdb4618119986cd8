// Package mongodb implements the store interfaces on a MongoDB database.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matthewaubert/horizons-api/internal/config"
)

// Collection names.
const (
	usersCollection      = "users"
	postsCollection      = "posts"
	commentsCollection   = "comments"
	categoriesCollection = "categories"
)

// connectTimeout bounds the initial connection and ping.
const connectTimeout = 10 * time.Second

// Connect establishes a client connection, verifies it with a ping and
// returns a handle on the configured database.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client.Database(cfg.Name), nil
}

// EnsureIndexes creates the unique indexes backing the application's
// uniqueness invariants. The slug indexes are the storage-level backstop for
// the slug generator's non-transactional check-then-act probe: a concurrent
// collision surfaces as a duplicate-key error instead of a broken invariant.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	indexes := map[string][]mongo.IndexModel{
		usersCollection: {unique("username"), unique("slug"), unique("email")},
		postsCollection: {
			unique("slug"),
			// Comments are listed by parent; posts by author.
			{Keys: bson.D{{Key: "user", Value: 1}}},
		},
		commentsCollection: {
			{Keys: bson.D{{Key: "post", Value: 1}}},
		},
		categoriesCollection: {unique("name"), unique("slug")},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}

	return nil
}
