package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"news-aggregator/model"
	"news-aggregator/service"
)

// PreferenceStore persists user preferences keyed by user id.
type PreferenceStore struct {
	collection *mongo.Collection
}

func NewPreferenceStore(db *mongo.Database) *PreferenceStore {
	return &PreferenceStore{collection: db.Collection(preferencesCollection)}
}

func (s *PreferenceStore) FindByUser(ctx context.Context, userID string) (*model.UserPreference, error) {
	var pref model.UserPreference
	err := s.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&pref)
	if err == mongo.ErrNoDocuments {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func (s *PreferenceStore) Create(ctx context.Context, pref *model.UserPreference) error {
	if pref.ID.IsZero() {
		pref.ID = primitive.NewObjectID()
	}
	_, err := s.collection.InsertOne(ctx, pref)
	return err
}

func (s *PreferenceStore) Update(ctx context.Context, pref *model.UserPreference) error {
	result, err := s.collection.ReplaceOne(ctx, bson.M{"user_id": pref.UserID}, pref)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return service.ErrNotFound
	}
	return nil
}
