package service

import (
	"context"
	"log"
	"time"

	"news-aggregator/cache"
)

// maxEnumeratedLimit bounds the limit values enumerated by the non-tag
// fallback; cached list operations clamp their limit to the same bound.
const maxEnumeratedLimit = 100

// CacheInvalidator drops article-dependent cache entries after writes.
// Tag-capable backends flush whole groups; others get a best-effort
// enumeration of the known key patterns.
type CacheInvalidator struct {
	cache      cache.Store
	categories CategoryStore
	sources    SourceStore
}

func NewCacheInvalidator(cacheStore cache.Store, categories CategoryStore, sources SourceStore) *CacheInvalidator {
	return &CacheInvalidator{cache: cacheStore, categories: categories, sources: sources}
}

// InvalidateArticles clears every article-dependent cache group. Failures
// are logged, never propagated: a stale cache entry expires on its own TTL.
func (ci *CacheInvalidator) InvalidateArticles(ctx context.Context) {
	if ci == nil || ci.cache == nil {
		return
	}

	if ci.cache.SupportsTags() {
		err := ci.cache.FlushTags(ctx,
			cache.TagArticles, cache.TagFeatured, cache.TagCategories,
			cache.TagSources, cache.TagStatistics)
		if err == nil {
			log.Printf("[INFO] Article caches cleared via tags")
			return
		}
		log.Printf("[WARN] Tag flush failed, falling back to enumerated eviction: %v", err)
	}

	ci.invalidateEnumerated(ctx)
}

// invalidateEnumerated evicts the bounded set of known key patterns. Keys
// outside the enumerated bound may survive; that is an accepted limitation
// of backends without tags.
func (ci *CacheInvalidator) invalidateEnumerated(ctx context.Context) {
	keys := []string{cache.Key("statistics", nil)}

	for limit := 1; limit <= maxEnumeratedLimit; limit++ {
		keys = append(keys, cache.Key("featured_articles", map[string]any{"limit": limit}))
	}

	categoryIDs, err := ci.categories.IDs(ctx)
	if err != nil {
		log.Printf("[WARN] Could not enumerate category cache keys: %v", err)
	}
	sourceIDs, err := ci.sources.IDs(ctx)
	if err != nil {
		log.Printf("[WARN] Could not enumerate source cache keys: %v", err)
	}

	for _, id := range categoryIDs {
		for limit := 1; limit <= maxEnumeratedLimit; limit++ {
			keys = append(keys, cache.Key("category_articles", map[string]any{"category_id": id, "limit": limit}))
		}
	}
	for _, id := range sourceIDs {
		for limit := 1; limit <= maxEnumeratedLimit; limit++ {
			keys = append(keys, cache.Key("source_articles", map[string]any{"source_id": id, "limit": limit}))
		}
	}

	start := time.Now()
	if err := ci.cache.Forget(ctx, keys...); err != nil {
		log.Printf("[WARN] Enumerated cache eviction failed: %v", err)
		return
	}
	log.Printf("[INFO] Evicted %d enumerated cache keys in %v", len(keys), time.Since(start))
}
