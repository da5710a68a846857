package store

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"news-aggregator/model"
	"news-aggregator/service"
)

// CategoryStore persists categories in the categories collection.
type CategoryStore struct {
	collection *mongo.Collection
}

func NewCategoryStore(db *mongo.Database) *CategoryStore {
	return &CategoryStore{collection: db.Collection(categoriesCollection)}
}

func (s *CategoryStore) FindByID(ctx context.Context, id string) (*model.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, service.ErrNotFound
	}

	var category model.Category
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryStore) Exists(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	count, err := s.collection.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	return count > 0, err
}

// FindOrCreateBySlug resolves a category name to its record, creating it
// with defaults when the slug is unseen. The upsert keyed on slug keeps
// concurrent creators from racing to duplicates.
func (s *CategoryStore) FindOrCreateBySlug(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	slug := model.Slugify(name)
	if slug == "" {
		return nil, service.ErrNotFound
	}

	update := bson.M{
		"$setOnInsert": bson.M{
			"name":      name,
			"slug":      slug,
			"color":     model.DefaultCategoryColor,
			"is_active": true,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var category model.Category
	if err := s.collection.FindOneAndUpdate(ctx, bson.M{"slug": slug}, update, opts).Decode(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryStore) All(ctx context.Context) ([]model.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []model.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryStore) CountActive(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{"is_active": true})
}

func (s *CategoryStore) IDs(ctx context.Context) ([]string, error) {
	return collectIDs(ctx, s.collection)
}

// collectIDs pulls every _id in a collection as hex strings.
func collectIDs(ctx context.Context, collection *mongo.Collection) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID.Hex())
	}
	return ids, nil
}
