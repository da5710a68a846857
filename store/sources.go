package store

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"news-aggregator/model"
	"news-aggregator/service"
)

// SourceStore persists news sources in the news_sources collection.
type SourceStore struct {
	collection *mongo.Collection
}

func NewSourceStore(db *mongo.Database) *SourceStore {
	return &SourceStore{collection: db.Collection(sourcesCollection)}
}

// ActiveOrdered returns active sources by priority descending, name
// ascending. This is the aggregation processing order.
func (s *SourceStore) ActiveOrdered(ctx context.Context) ([]model.NewsSource, error) {
	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: -1}, {Key: "name", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sources := []model.NewsSource{}
	if err := cursor.All(ctx, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

func (s *SourceStore) FindByID(ctx context.Context, id string) (*model.NewsSource, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, service.ErrNotFound
	}

	var source model.NewsSource
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&source)
	if err == mongo.ErrNoDocuments {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (s *SourceStore) Exists(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	count, err := s.collection.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	return count > 0, err
}

func (s *SourceStore) All(ctx context.Context) ([]model.NewsSource, error) {
	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: -1}, {Key: "name", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sources := []model.NewsSource{}
	if err := cursor.All(ctx, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

func (s *SourceStore) CountActive(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{"is_active": true})
}

func (s *SourceStore) IDs(ctx context.Context) ([]string, error) {
	return collectIDs(ctx, s.collection)
}

// Seed upserts the built-in provider sources keyed by slug. Existing
// records keep their configured state; only missing ones are created.
func (s *SourceStore) Seed(ctx context.Context) error {
	defaults := []model.NewsSource{
		{
			Name:        "NewsAPI",
			Slug:        "newsapi",
			APIProvider: model.ProviderNewsAPI,
			IsActive:    true,
			Priority:    100,
			Description: "Headlines and articles from thousands of outlets via NewsAPI.org",
			WebsiteURL:  "https://newsapi.org",
		},
		{
			Name:        "The Guardian",
			Slug:        "the-guardian",
			APIProvider: model.ProviderGuardian,
			IsActive:    true,
			Priority:    90,
			Description: "Guardian journalism via the Guardian Open Platform",
			WebsiteURL:  "https://www.theguardian.com",
		},
		{
			Name:        "New York Times",
			Slug:        "new-york-times",
			APIProvider: model.ProviderNYTimes,
			IsActive:    true,
			Priority:    80,
			Description: "NYT reporting via the Article Search API",
			WebsiteURL:  "https://www.nytimes.com",
		},
	}

	for _, source := range defaults {
		update := bson.M{"$setOnInsert": bson.M{
			"name":         source.Name,
			"slug":         source.Slug,
			"api_provider": source.APIProvider,
			"is_active":    source.IsActive,
			"priority":     source.Priority,
			"description":  source.Description,
			"website_url":  source.WebsiteURL,
		}}
		result, err := s.collection.UpdateOne(ctx, bson.M{"slug": source.Slug}, update, options.Update().SetUpsert(true))
		if err != nil {
			return err
		}
		if result.UpsertedCount > 0 {
			log.Printf("[INFO] Seeded news source %s (provider=%s priority=%d)",
				source.Name, source.APIProvider, source.Priority)
		}
	}
	return nil
}
