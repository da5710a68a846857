package store

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"news-aggregator/model"
	"news-aggregator/service"
)

// ArticleStore persists articles in the articles collection.
type ArticleStore struct {
	collection *mongo.Collection
}

func NewArticleStore(db *mongo.Database) *ArticleStore {
	return &ArticleStore{collection: db.Collection(articlesCollection)}
}

func (s *ArticleStore) Create(ctx context.Context, article *model.Article) error {
	if article.ID.IsZero() {
		article.ID = primitive.NewObjectID()
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}
	_, err := s.collection.InsertOne(ctx, article)
	if mongo.IsDuplicateKeyError(err) {
		return service.ErrDuplicateURL
	}
	return err
}

func (s *ArticleStore) ExistsByURL(ctx context.Context, url string) (bool, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{"url": url}, options.Count().SetLimit(1))
	return count > 0, err
}

func (s *ArticleStore) FindByID(ctx context.Context, id string) (*model.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, service.ErrNotFound
	}

	var article model.Article
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&article)
	if err == mongo.ErrNoDocuments {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *ArticleStore) IncrementViewCount(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return service.ErrNotFound
	}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"view_count": 1}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *ArticleStore) SetFeatured(ctx context.Context, id string, featured bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return service.ErrNotFound
	}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"is_featured": featured}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return service.ErrNotFound
	}
	return nil
}

// Find returns matching articles ordered published_at descending with _id
// as the stable tie-break.
func (s *ArticleStore) Find(ctx context.Context, filters service.ArticleFilters, skip, limit int) ([]model.Article, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, articleFilter(filters), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	articles := []model.Article{}
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *ArticleStore) Count(ctx context.Context, filters service.ArticleFilters) (int64, error) {
	return s.collection.CountDocuments(ctx, articleFilter(filters))
}

func (s *ArticleStore) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{
		"created_at": bson.M{"$gte": from, "$lt": to},
	})
}

// TopSource returns the source id with the most stored articles.
func (s *ArticleStore) TopSource(ctx context.Context) (string, int64, error) {
	return s.topGroup(ctx, "$news_source_id", bson.M{})
}

// TopCategory returns the category id with the most stored articles,
// ignoring uncategorized ones.
func (s *ArticleStore) TopCategory(ctx context.Context) (string, int64, error) {
	return s.topGroup(ctx, "$category_id", bson.M{"category_id": bson.M{"$ne": nil}})
}

func (s *ArticleStore) topGroup(ctx context.Context, field string, match bson.M) (string, int64, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": field, "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
		{"$limit": 1},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return "", 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Count int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return "", 0, err
	}
	if len(results) == 0 {
		return "", 0, nil
	}
	return results[0].ID.Hex(), results[0].Count, nil
}

// articleFilter translates the service filter set into a bson query. All
// conditions combine with AND; the author preference set expands to an OR
// of substring matches.
func articleFilter(filters service.ArticleFilters) bson.M {
	conditions := []bson.M{}

	if filters.Search != "" {
		pattern := regexp.QuoteMeta(filters.Search)
		conditions = append(conditions, bson.M{"$or": []bson.M{
			{"title": caseInsensitive(pattern)},
			{"description": caseInsensitive(pattern)},
			{"content": caseInsensitive(pattern)},
		}})
	}
	if filters.CategoryID != "" {
		conditions = append(conditions, bson.M{"category_id": objectIDOrNil(filters.CategoryID)})
	}
	if filters.SourceID != "" {
		conditions = append(conditions, bson.M{"news_source_id": objectIDOrNil(filters.SourceID)})
	}
	if filters.Author != "" {
		conditions = append(conditions, bson.M{"author": caseInsensitive(regexp.QuoteMeta(filters.Author))})
	}
	if filters.DateFrom != nil {
		conditions = append(conditions, bson.M{"published_at": bson.M{"$gte": *filters.DateFrom}})
	}
	if filters.DateTo != nil {
		conditions = append(conditions, bson.M{"published_at": bson.M{"$lte": *filters.DateTo}})
	}
	if filters.Featured != nil {
		conditions = append(conditions, bson.M{"is_featured": *filters.Featured})
	}

	if len(filters.PreferredSources) > 0 {
		conditions = append(conditions, bson.M{"news_source_id": bson.M{"$in": objectIDs(filters.PreferredSources)}})
	}
	if len(filters.PreferredCategories) > 0 {
		conditions = append(conditions, bson.M{"category_id": bson.M{"$in": objectIDs(filters.PreferredCategories)}})
	}
	if len(filters.PreferredAuthors) > 0 {
		authorMatches := make([]bson.M, 0, len(filters.PreferredAuthors))
		for _, author := range filters.PreferredAuthors {
			authorMatches = append(authorMatches, bson.M{"author": caseInsensitive(regexp.QuoteMeta(author))})
		}
		conditions = append(conditions, bson.M{"$or": authorMatches})
	}

	switch len(conditions) {
	case 0:
		return bson.M{}
	case 1:
		return conditions[0]
	default:
		return bson.M{"$and": conditions}
	}
}

func caseInsensitive(pattern string) bson.M {
	return bson.M{"$regex": pattern, "$options": "i"}
}

// objectIDOrNil maps malformed ids to the zero ObjectID, which matches no
// stored document.
func objectIDOrNil(id string) primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}
