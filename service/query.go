package service

import (
	"context"
	"log"
	"time"

	"news-aggregator/cache"
	"news-aggregator/metrics"
	"news-aggregator/model"
)

// CacheTTL holds per-operation-class cache lifetimes.
type CacheTTL struct {
	Featured   time.Duration
	Category   time.Duration
	Source     time.Duration
	Statistics time.Duration
}

// QueryService serves filtered, paginated reads over stored articles,
// with the read-heavy operations fronted by the cache layer. A cache
// backend failure never fails a request; the result is recomputed from
// storage.
type QueryService struct {
	articles   ArticleStore
	categories CategoryStore
	sources    SourceStore
	cache      cache.Store
	ttl        CacheTTL
	now        func() time.Time
}

func NewQueryService(articles ArticleStore, categories CategoryStore, sources SourceStore,
	cacheStore cache.Store, ttl CacheTTL) *QueryService {
	return &QueryService{
		articles:   articles,
		categories: categories,
		sources:    sources,
		cache:      cacheStore,
		ttl:        ttl,
		now:        time.Now,
	}
}

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// GetArticles returns a filtered page of articles, newest first. Filters
// naming a category or source that does not exist short-circuit to an
// empty result, never an error.
func (s *QueryService) GetArticles(ctx context.Context, filters ArticleFilters, page, perPage int) (*model.ArticlePage, error) {
	page, perPage = normalizePagination(page, perPage)

	if filters.CategoryID != "" {
		ok, err := s.categories.Exists(ctx, filters.CategoryID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return model.EmptyArticlePage(page, perPage), nil
		}
	}
	if filters.SourceID != "" {
		ok, err := s.sources.Exists(ctx, filters.SourceID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return model.EmptyArticlePage(page, perPage), nil
		}
	}

	return s.paginate(ctx, filters, page, perPage)
}

// GetPersonalizedArticles applies the user's preference sets on top of
// the base filters: sources and categories as IN-sets, authors as an OR
// of substring matches, all combined with AND.
func (s *QueryService) GetPersonalizedArticles(ctx context.Context, filters ArticleFilters, page, perPage int) (*model.ArticlePage, error) {
	page, perPage = normalizePagination(page, perPage)
	return s.paginate(ctx, filters, page, perPage)
}

func (s *QueryService) paginate(ctx context.Context, filters ArticleFilters, page, perPage int) (*model.ArticlePage, error) {
	total, err := s.articles.Count(ctx, filters)
	if err != nil {
		return nil, err
	}

	articles, err := s.articles.Find(ctx, filters, (page-1)*perPage, perPage)
	if err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []model.Article{}
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	return &model.ArticlePage{
		Data: articles,
		Pagination: model.Pagination{
			CurrentPage: page,
			LastPage:    lastPage,
			PerPage:     perPage,
			Total:       total,
			HasMore:     page < lastPage,
		},
	}, nil
}

// GetArticle loads one article by id and increments its view count.
func (s *QueryService) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.articles.IncrementViewCount(ctx, id); err != nil {
		log.Printf("[WARN] Failed to increment view count for %s: %v", id, err)
	} else {
		article.ViewCount++
	}
	return article, nil
}

// GetLatestArticles returns the newest articles without caching.
func (s *QueryService) GetLatestArticles(ctx context.Context, limit int) ([]model.Article, error) {
	return s.articles.Find(ctx, ArticleFilters{}, 0, clampLimit(limit))
}

// GetFeaturedArticles returns featured articles, cached under the
// articles/featured tag groups.
func (s *QueryService) GetFeaturedArticles(ctx context.Context, limit int) ([]model.Article, error) {
	limit = clampLimit(limit)
	key := cache.Key("featured_articles", map[string]any{"limit": limit})

	var cached []model.Article
	if s.cacheGet(ctx, "featured_articles", key, &cached) {
		return cached, nil
	}

	featured := true
	articles, err := s.articles.Find(ctx, ArticleFilters{Featured: &featured}, 0, limit)
	if err != nil {
		return nil, err
	}

	s.cachePut(ctx, key, articles, s.ttl.Featured, cache.TagArticles, cache.TagFeatured)
	return articles, nil
}

// GetArticlesByCategory returns a category-scoped article list, cached.
// Returns ErrNotFound for an unknown category id.
func (s *QueryService) GetArticlesByCategory(ctx context.Context, categoryID string, limit int) ([]model.Article, error) {
	ok, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	limit = clampLimit(limit)
	key := cache.Key("category_articles", map[string]any{"category_id": categoryID, "limit": limit})

	var cached []model.Article
	if s.cacheGet(ctx, "category_articles", key, &cached) {
		return cached, nil
	}

	articles, err := s.articles.Find(ctx, ArticleFilters{CategoryID: categoryID}, 0, limit)
	if err != nil {
		return nil, err
	}

	s.cachePut(ctx, key, articles, s.ttl.Category, cache.TagArticles, cache.TagCategories)
	return articles, nil
}

// GetArticlesBySource returns a source-scoped article list, cached.
// Returns ErrNotFound for an unknown source id.
func (s *QueryService) GetArticlesBySource(ctx context.Context, sourceID string, limit int) ([]model.Article, error) {
	ok, err := s.sources.Exists(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	limit = clampLimit(limit)
	key := cache.Key("source_articles", map[string]any{"source_id": sourceID, "limit": limit})

	var cached []model.Article
	if s.cacheGet(ctx, "source_articles", key, &cached) {
		return cached, nil
	}

	articles, err := s.articles.Find(ctx, ArticleFilters{SourceID: sourceID}, 0, limit)
	if err != nil {
		return nil, err
	}

	s.cachePut(ctx, key, articles, s.ttl.Source, cache.TagArticles, cache.TagSources)
	return articles, nil
}

// GetStatistics returns aggregate counts over the stored corpus, cached
// under the statistics tag group.
func (s *QueryService) GetStatistics(ctx context.Context) (*model.Statistics, error) {
	key := cache.Key("statistics", nil)

	var cached model.Statistics
	if s.cacheGet(ctx, "statistics", key, &cached) {
		return &cached, nil
	}

	stats, err := s.computeStatistics(ctx)
	if err != nil {
		return nil, err
	}

	s.cachePut(ctx, key, stats, s.ttl.Statistics, cache.TagStatistics)
	return stats, nil
}

func (s *QueryService) computeStatistics(ctx context.Context) (*model.Statistics, error) {
	total, err := s.articles.Count(ctx, ArticleFilters{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // week starts Monday
	}
	weekStart := dayStart.AddDate(0, 0, -(weekday - 1))
	weekEnd := weekStart.AddDate(0, 0, 7)

	today, err := s.articles.CountCreatedBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	thisWeek, err := s.articles.CountCreatedBetween(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	activeSources, err := s.sources.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	activeCategories, err := s.categories.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.Statistics{
		TotalArticles:    total,
		ArticlesToday:    today,
		ArticlesThisWeek: thisWeek,
		TotalSources:     activeSources,
		TotalCategories:  activeCategories,
	}

	if id, count, err := s.articles.TopSource(ctx); err == nil && count > 0 {
		if src, err := s.sources.FindByID(ctx, id); err == nil {
			stats.MostActiveSource = &model.SourceCount{ID: id, Name: src.Name, ArticleCount: count}
		}
	}
	if id, count, err := s.articles.TopCategory(ctx); err == nil && count > 0 {
		if category, err := s.categories.FindByID(ctx, id); err == nil {
			stats.MostPopularCategory = &model.CategoryCount{ID: id, Name: category.Name, ArticleCount: count}
		}
	}

	return stats, nil
}

func (s *QueryService) cacheGet(ctx context.Context, operation, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, out)
	if err != nil {
		log.Printf("[WARN] Cache read failed for %s, recomputing from storage: %v", operation, err)
		metrics.CacheOperations.WithLabelValues(operation, "error").Inc()
		return false
	}
	if hit {
		metrics.CacheOperations.WithLabelValues(operation, "hit").Inc()
		return true
	}
	metrics.CacheOperations.WithLabelValues(operation, "miss").Inc()
	return false
}

func (s *QueryService) cachePut(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, ttl, tags...); err != nil {
		log.Printf("[WARN] Cache write failed for %s: %v", key, err)
	}
}

func normalizePagination(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}
	return page, perPage
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > maxEnumeratedLimit {
		return maxEnumeratedLimit
	}
	return limit
}
