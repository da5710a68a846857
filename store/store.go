// Package store implements MongoDB-backed storage for articles, sources,
// categories and user preferences.
package store

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	articlesCollection    = "articles"
	categoriesCollection  = "categories"
	sourcesCollection     = "news_sources"
	preferencesCollection = "user_preferences"
)

// Connect opens a client, verifies the connection and returns the named
// database handle.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, err
	}
	log.Printf("[INFO] Connected to MongoDB database %s", dbName)
	return client.Database(dbName), nil
}

// EnsureIndexes creates the unique and query indexes the stores rely on.
// The unique index on articles.url is what makes the insert-if-absent
// dedup race safe.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	articleIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "url", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "published_at", Value: -1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "news_source_id", Value: 1}, {Key: "published_at", Value: -1}}},
		{Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "published_at", Value: -1}}},
		{Keys: bson.D{{Key: "is_featured", Value: 1}, {Key: "published_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	if _, err := db.Collection(articlesCollection).Indexes().CreateMany(ctx, articleIndexes); err != nil {
		return err
	}

	uniqueSlug := mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(categoriesCollection).Indexes().CreateOne(ctx, uniqueSlug); err != nil {
		return err
	}
	if _, err := db.Collection(sourcesCollection).Indexes().CreateOne(ctx, uniqueSlug); err != nil {
		return err
	}

	uniqueUser := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(preferencesCollection).Indexes().CreateOne(ctx, uniqueUser); err != nil {
		return err
	}

	log.Printf("[INFO] Storage indexes ensured")
	return nil
}
