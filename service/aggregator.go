package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"news-aggregator/metrics"
	"news-aggregator/model"
	"news-aggregator/provider"
)

// AggregateOptions controls one aggregation run. Sources restricts the run
// to the named provider identifiers; it is an orchestration-only option and
// is never forwarded to adapters.
type AggregateOptions struct {
	Sources []string `json:"sources,omitempty"`
	Limit   int      `json:"limit,omitempty"`
	Query   string   `json:"query,omitempty"`
}

// Aggregator fetches articles from every active source, deduplicates and
// stores them, and compiles the per-source run report. A failing source
// never aborts the processing of the remaining sources.
type Aggregator struct {
	sources     SourceStore
	articles    ArticleStore
	categories  CategoryStore
	registry    ProviderRegistry
	invalidator *CacheInvalidator
	limiter     *rate.Limiter
	now         func() time.Time
}

func NewAggregator(sources SourceStore, articles ArticleStore, categories CategoryStore,
	registry ProviderRegistry, invalidator *CacheInvalidator, limiter *rate.Limiter) *Aggregator {
	return &Aggregator{
		sources:     sources,
		articles:    articles,
		categories:  categories,
		registry:    registry,
		invalidator: invalidator,
		limiter:     limiter,
		now:         time.Now,
	}
}

// AggregateNews runs one aggregation cycle and returns the run report
// keyed by source name. It only errors on setup failures outside the
// per-source loop; individual source failures land in the report.
func (a *Aggregator) AggregateNews(ctx context.Context, opts AggregateOptions) (map[string]model.SourceResult, error) {
	active, err := a.sources.ActiveOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active sources: %w", err)
	}

	if len(opts.Sources) > 0 {
		wanted := make(map[string]bool, len(opts.Sources))
		for _, providerID := range opts.Sources {
			wanted[providerID] = true
		}
		filtered := active[:0]
		for _, src := range active {
			if wanted[src.APIProvider] {
				filtered = append(filtered, src)
			}
		}
		active = filtered
	}

	results := make(map[string]model.SourceResult, len(active))
	for i := range active {
		src := active[i]
		result, include := a.processSource(ctx, &src, opts)
		if !include {
			continue
		}
		results[src.Name] = result
		metrics.AggregationRuns.WithLabelValues(src.Name, result.Status).Inc()

		if result.Status == model.RunStatusSuccess {
			log.Printf("[INFO] Aggregated news from %s: fetched=%d stored=%d",
				src.Name, result.Fetched, result.Stored)
		} else {
			log.Printf("[ERROR] Failed to aggregate news from %s: %s", src.Name, result.Error)
		}
	}

	return results, nil
}

// processSource runs steps a-c for one source. include is false when the
// source is skipped (unknown provider, unavailable adapter) and therefore
// absent from the report. Panics from adapter or storage internals are
// contained here so one source cannot take down the run.
func (a *Aggregator) processSource(ctx context.Context, src *model.NewsSource, opts AggregateOptions) (result model.SourceResult, include bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] Source %s panicked during aggregation: %v", src.Name, r)
			result = model.SourceResult{Status: model.RunStatusError, Error: fmt.Sprintf("%v", r)}
			include = true
		}
	}()

	adapter := a.registry.Create(src)
	if adapter == nil {
		// Already logged by the registry.
		return model.SourceResult{}, false
	}
	if !adapter.Available() {
		log.Printf("[WARN] Skipping unavailable source: %s", src.Name)
		return model.SourceResult{}, false
	}

	fetchOpts := adapter.PrepareOptions(provider.Options{
		Query: opts.Query,
		Limit: opts.Limit,
	})

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return model.SourceResult{Status: model.RunStatusError, Error: err.Error()}, true
		}
	}

	articles := adapter.FetchArticles(ctx, fetchOpts)
	stored := a.storeArticles(ctx, src, articles)

	metrics.ArticlesFetched.WithLabelValues(src.Name).Add(float64(len(articles)))
	metrics.ArticlesStored.WithLabelValues(src.Name).Add(float64(stored))

	return model.SourceResult{
		Fetched: len(articles),
		Stored:  stored,
		Status:  model.RunStatusSuccess,
	}, true
}

// storeArticles persists a batch of normalized articles for one source.
// Invalid records are skipped with a warning, duplicates silently; any
// successful store in the batch triggers cache invalidation.
func (a *Aggregator) storeArticles(ctx context.Context, src *model.NewsSource, items []model.NormalizedArticle) int {
	stored := 0

	for _, item := range items {
		item.URL = strings.TrimSpace(item.URL)
		if strings.TrimSpace(item.Title) == "" || item.URL == "" {
			log.Printf("[WARN] Skipping article with missing title or url (source=%s)", src.Name)
			continue
		}

		exists, err := a.articles.ExistsByURL(ctx, item.URL)
		if err != nil {
			log.Printf("[ERROR] Duplicate check failed for %s: %v", item.URL, err)
			continue
		}
		if exists {
			continue
		}

		publishedAt, ok := provider.ParseTime(item.PublishedAt)
		if !ok {
			if item.PublishedAt != "" {
				log.Printf("[WARN] Could not parse published date %q, using ingestion time", item.PublishedAt)
			}
			publishedAt = a.now()
		}

		article := &model.Article{
			NewsSourceID: src.ID,
			ExternalID:   item.ExternalID,
			Title:        item.Title,
			Description:  item.Description,
			Content:      item.Content,
			URL:          item.URL,
			ImageURL:     item.ImageURL,
			Author:       item.Author,
			PublishedAt:  publishedAt,
			Metadata:     item.Metadata,
			CreatedAt:    a.now(),
		}
		article.Normalize()

		if item.Category != "" {
			category, err := a.categories.FindOrCreateBySlug(ctx, item.Category)
			if err != nil {
				log.Printf("[ERROR] Category resolution failed for %q: %v", item.Category, err)
			} else {
				article.CategoryID = &category.ID
			}
		}

		if err := a.articles.Create(ctx, article); err != nil {
			if errors.Is(err, ErrDuplicateURL) {
				// Lost the insert-if-absent race; treat as duplicate skip.
				continue
			}
			log.Printf("[ERROR] Failed to store article %s: %v", item.URL, err)
			continue
		}
		stored++
	}

	if stored > 0 {
		a.invalidator.InvalidateArticles(ctx)
	}
	return stored
}
