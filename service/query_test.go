package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"news-aggregator/cache"
	"news-aggregator/model"
)

func testTTL() CacheTTL {
	return CacheTTL{
		Featured:   5 * time.Minute,
		Category:   3 * time.Minute,
		Source:     3 * time.Minute,
		Statistics: 5 * time.Minute,
	}
}

func seedArticles(t *testing.T, store *fakeArticleStore, source *model.NewsSource, n int) []model.Article {
	t.Helper()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		article := &model.Article{
			NewsSourceID: source.ID,
			Title:        fmt.Sprintf("Article %d", i),
			URL:          fmt.Sprintf("https://example.com/%d", i),
			PublishedAt:  base.Add(time.Duration(i) * time.Hour),
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.Create(context.Background(), article); err != nil {
			t.Fatalf("seed article %d: %v", i, err)
		}
	}
	all, _ := store.Find(context.Background(), ArticleFilters{}, 0, n)
	return all
}

func TestGetArticlesUnknownCategoryReturnsEmptyPage(t *testing.T) {
	articles := newFakeArticleStore()
	source := testSource("NewsAPI", model.ProviderNewsAPI, 100)
	sources := newFakeSourceStore(source)
	seedArticles(t, articles, source, 3)

	query := NewQueryService(articles, newFakeCategoryStore(), sources, cache.NewMemory(), testTTL())

	page, err := query.GetArticles(context.Background(), ArticleFilters{CategoryID: primitive.NewObjectID().Hex()}, 1, 10)
	if err != nil {
		t.Fatalf("GetArticles: %v", err)
	}
	if len(page.Data) != 0 || page.Pagination.Total != 0 {
		t.Errorf("expected empty page, got %+v", page)
	}
	if page.Pagination.LastPage != 1 || page.Pagination.HasMore {
		t.Errorf("pagination = %+v, want last_page=1 has_more=false", page.Pagination)
	}
}

func TestGetArticlesPagination(t *testing.T) {
	articles := newFakeArticleStore()
	source := testSource("NewsAPI", model.ProviderNewsAPI, 100)
	sources := newFakeSourceStore(source)
	seedArticles(t, articles, source, 5)

	query := NewQueryService(articles, newFakeCategoryStore(), sources, cache.NewMemory(), testTTL())

	page, err := query.GetArticles(context.Background(), ArticleFilters{}, 2, 2)
	if err != nil {
		t.Fatalf("GetArticles: %v", err)
	}
	if len(page.Data) != 2 {
		t.Fatalf("page 2 has %d articles, want 2", len(page.Data))
	}
	if page.Pagination.Total != 5 || page.Pagination.LastPage != 3 || !page.Pagination.HasMore {
		t.Errorf("pagination = %+v, want total=5 last_page=3 has_more=true", page.Pagination)
	}

	// Newest first: page 2 starts after the two most recent.
	if page.Data[0].Title != "Article 2" {
		t.Errorf("page 2 first article = %q, want Article 2", page.Data[0].Title)
	}

	last, err := query.GetArticles(context.Background(), ArticleFilters{}, 3, 2)
	if err != nil {
		t.Fatalf("GetArticles last page: %v", err)
	}
	if len(last.Data) != 1 || last.Pagination.HasMore {
		t.Errorf("last page = %d articles has_more=%v, want 1/false", len(last.Data), last.Pagination.HasMore)
	}
}

func TestGetArticlesNormalizesPagination(t *testing.T) {
	articles := newFakeArticleStore()
	sources := newFakeSourceStore()
	query := NewQueryService(articles, newFakeCategoryStore(), sources, cache.NewMemory(), testTTL())

	page, err := query.GetArticles(context.Background(), ArticleFilters{}, -3, 5000)
	if err != nil {
		t.Fatalf("GetArticles: %v", err)
	}
	if page.Pagination.CurrentPage != 1 || page.Pagination.PerPage != defaultPerPage {
		t.Errorf("pagination = %+v, want page=1 per_page=%d", page.Pagination, defaultPerPage)
	}
}

func TestGetArticlesFeaturedTriState(t *testing.T) {
	articles := newFakeArticleStore()
	source := testSource("NewsAPI", model.ProviderNewsAPI, 100)
	sources := newFakeSourceStore(source)
	seeded := seedArticles(t, articles, source, 3)

	if err := articles.SetFeatured(context.Background(), seeded[0].ID.Hex(), true); err != nil {
		t.Fatalf("SetFeatured: %v", err)
	}

	query := NewQueryService(articles, newFakeCategoryStore(), sources, cache.NewMemory(), testTTL())
	ctx := context.Background()

	featured := true
	page, err := query.GetArticles(ctx, ArticleFilters{Featured: &featured}, 1, 10)
	if err != nil {
		t.Fatalf("featured=true: %v", err)
	}
	if page.Pagination.Total != 1 || !page.Data[0].IsFeatured {
		t.Errorf("featured=true returned %d articles", page.Pagination.Total)
	}

	featured = false
	page, err = query.GetArticles(ctx, ArticleFilters{Featured: &featured}, 1, 10)
	if err != nil {
		t.Fatalf("featured=false: %v", err)
	}
	if page.Pagination.Total != 2 {
		t.Errorf("featured=false returned %d articles, want 2", page.Pagination.Total)
	}

	page, err = query.GetArticles(ctx, ArticleFilters{}, 1, 10)
	if err != nil {
		t.Fatalf("featured absent: %v", err)
	}
	if page.Pagination.Total != 3 {
		t.Errorf("absent filter returned %d articles, want all 3", page.Pagination.Total)
	}
}

func TestGetArticlesDateWindow(t *testing.T) {
	articles := newFakeArticleStore()
	source := testSource("NewsAPI", model.ProviderNewsAPI, 100)
	sources := newFakeSourceStore(source)

	dates := []time.Time{
		time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC), // inside
		time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC), // inside, newest
		time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),   // outside
	}
	for i, published := range dates {
		err := articles.Create(context.Background(), &model.Article{
			NewsSourceID: source.ID,
			Title:        fmt.Sprintf("Dated %d", i),
			URL:          fmt.Sprintf("https://example.com/dated-%d", i),
			PublishedAt:  published,
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	query := NewQueryService(articles, newFakeCategoryStore(), sources, cache.NewMemory(), testTTL())

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	page, err := query.GetArticles(context.Background(), ArticleFilters{DateFrom: &from, DateTo: &to}, 1, 10)
	if err != nil {
		t.Fatalf("GetArticles: %v", err)
	}

	if page.Pagination.Total != 2 {
		t.Fatalf("window returned %d articles, want 2", page.Pagination.Total)
	}
	if page.Data[0].Title != "Dated 1" || page.Data[1].Title != "Dated 0" {
		t.Errorf("ordering = [%s, %s], want newest first", page.Data[0].Title, page.Data[1].Title)
	}
}

func TestGetArticleIncrementsViewCount(t *testing.T) {
	articles := newFakeArticleStore()
	source := testSource("NewsAPI", model.ProviderNewsAPI, 100)
	sources := newFakeSourceStore(source)
	seeded := seedArticles(t, articles, source, 1)

	query := NewQueryService(articles, newFakeCategoryStore(), sources, cache.NewMemory(), testTTL())

	id := seeded[0].ID.Hex()
	article, err := query.GetArticle(context.Background(), id)
	if err != nil {
		t.Fatalf("GetArticle: %v", err)
	}
	if article.ViewCount != 1 {
		t.Errorf("view_count = %d, want 1", article.ViewCount)
	}

	again, _ := query.GetArticle(context.Background(), id)
	if again.ViewCount != 2 {
		t.Errorf("second read view_count = %d, want 2", again.ViewCount)
	}
}

func TestGetFeaturedArticlesUsesCache(t *testing.T) {
	articles := newFakeArticleStore()
	source := testSource("NewsAPI", model.ProviderNewsAPI, 100)
	sources := newFakeSourceStore(source)
	seeded := seedArticles(t, articles, source, 2)

	if err := articles.SetFeatured(context.Background(), seeded[0].ID.Hex(), true); err != nil {
		t.Fatalf("SetFeatured: %v", err)
	}

	query := NewQueryService(articles, newFakeCategoryStore(), sources, cache.NewMemory(), testTTL())

	first, err := query.GetFeaturedArticles(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetFeaturedArticles: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("featured = %d articles, want 1", len(first))
	}

	// A direct store write without invalidation must not show up while the
	// entry is live.
	if err := articles.SetFeatured(context.Background(), seeded[1].ID.Hex(), true); err != nil {
		t.Fatalf("SetFeatured: %v", err)
	}
	second, err := query.GetFeaturedArticles(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetFeaturedArticles cached: %v", err)
	}
	if len(second) != 1 {
		t.Errorf("cached read = %d articles, want 1", len(second))
	}
}

func TestInvalidationRefreshesCachedReads(t *testing.T) {
	articles := newFakeArticleStore()
	source := testSource("NewsAPI", model.ProviderNewsAPI, 100)
	sources := newFakeSourceStore(source)
	categories := newFakeCategoryStore()
	seeded := seedArticles(t, articles, source, 2)

	memory := cache.NewMemory()
	query := NewQueryService(articles, categories, sources, memory, testTTL())
	invalidator := NewCacheInvalidator(memory, categories, sources)

	if err := articles.SetFeatured(context.Background(), seeded[0].ID.Hex(), true); err != nil {
		t.Fatalf("SetFeatured: %v", err)
	}
	if _, err := query.GetFeaturedArticles(context.Background(), 5); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	if err := articles.SetFeatured(context.Background(), seeded[1].ID.Hex(), true); err != nil {
		t.Fatalf("SetFeatured: %v", err)
	}
	invalidator.InvalidateArticles(context.Background())

	refreshed, err := query.GetFeaturedArticles(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetFeaturedArticles after invalidation: %v", err)
	}
	if len(refreshed) != 2 {
		t.Errorf("post-invalidation read = %d articles, want 2", len(refreshed))
	}
}

func TestGetArticlesByCategoryNotFound(t *testing.T) {
	query := NewQueryService(newFakeArticleStore(), newFakeCategoryStore(), newFakeSourceStore(),
		cache.NewMemory(), testTTL())

	_, err := query.GetArticlesByCategory(context.Background(), primitive.NewObjectID().Hex(), 10)
	if err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetStatistics(t *testing.T) {
	articles := newFakeArticleStore()
	categories := newFakeCategoryStore()
	source := testSource("NewsAPI", model.ProviderNewsAPI, 100)
	sources := newFakeSourceStore(source)

	category, _ := categories.FindOrCreateBySlug(context.Background(), "Technology")
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC) // a Tuesday

	for i, createdAt := range []time.Time{
		now.Add(-1 * time.Hour),       // today
		now.Add(-26 * time.Hour),      // yesterday, same week
		now.Add(-10 * 24 * time.Hour), // older
	} {
		article := &model.Article{
			NewsSourceID: source.ID,
			CategoryID:   &category.ID,
			Title:        fmt.Sprintf("Stat %d", i),
			URL:          fmt.Sprintf("https://example.com/stat-%d", i),
			PublishedAt:  createdAt,
			CreatedAt:    createdAt,
		}
		if err := articles.Create(context.Background(), article); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	query := NewQueryService(articles, categories, sources, cache.NewMemory(), testTTL())
	query.now = func() time.Time { return now }

	stats, err := query.GetStatistics(context.Background())
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}

	if stats.TotalArticles != 3 {
		t.Errorf("total_articles = %d, want 3", stats.TotalArticles)
	}
	if stats.ArticlesToday != 1 {
		t.Errorf("articles_today = %d, want 1", stats.ArticlesToday)
	}
	if stats.ArticlesThisWeek != 2 {
		t.Errorf("articles_this_week = %d, want 2", stats.ArticlesThisWeek)
	}
	if stats.TotalSources != 1 || stats.TotalCategories != 1 {
		t.Errorf("sources=%d categories=%d, want 1/1", stats.TotalSources, stats.TotalCategories)
	}
	if stats.MostActiveSource == nil || stats.MostActiveSource.Name != "NewsAPI" {
		t.Errorf("most_active_source = %+v, want NewsAPI", stats.MostActiveSource)
	}
	if stats.MostPopularCategory == nil || stats.MostPopularCategory.Name != "Technology" {
		t.Errorf("most_popular_category = %+v, want Technology", stats.MostPopularCategory)
	}
}
