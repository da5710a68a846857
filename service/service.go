// Package service holds the aggregation orchestrator, the query service
// and the preference service. Storage is consumed through the interfaces
// below; the store package provides the MongoDB implementations.
package service

import (
	"context"
	"errors"
	"time"

	"news-aggregator/model"
	"news-aggregator/provider"
)

var (
	// ErrNotFound is returned for lookups of absent records.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateURL is returned when an article insert loses the
	// insert-if-url-absent race. Callers treat it as a duplicate skip.
	ErrDuplicateURL = errors.New("article url already exists")
)

// ArticleFilters is the filter set for article queries. Preference fields
// combine with AND against the base filters; within PreferredAuthors the
// substring matches combine with OR.
type ArticleFilters struct {
	Search     string
	CategoryID string
	SourceID   string
	Author     string
	DateFrom   *time.Time
	DateTo     *time.Time
	Featured   *bool

	PreferredSources    []string
	PreferredCategories []string
	PreferredAuthors    []string
}

// ArticleStore is the article storage collaborator. Find returns articles
// ordered published_at descending with a stable tie-break.
type ArticleStore interface {
	Create(ctx context.Context, article *model.Article) error
	ExistsByURL(ctx context.Context, url string) (bool, error)
	FindByID(ctx context.Context, id string) (*model.Article, error)
	IncrementViewCount(ctx context.Context, id string) error
	SetFeatured(ctx context.Context, id string, featured bool) error
	Find(ctx context.Context, filters ArticleFilters, skip, limit int) ([]model.Article, error)
	Count(ctx context.Context, filters ArticleFilters) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	TopSource(ctx context.Context) (id string, count int64, err error)
	TopCategory(ctx context.Context) (id string, count int64, err error)
}

type CategoryStore interface {
	FindByID(ctx context.Context, id string) (*model.Category, error)
	Exists(ctx context.Context, id string) (bool, error)
	FindOrCreateBySlug(ctx context.Context, name string) (*model.Category, error)
	All(ctx context.Context) ([]model.Category, error)
	CountActive(ctx context.Context) (int64, error)
	IDs(ctx context.Context) ([]string, error)
}

type SourceStore interface {
	// ActiveOrdered returns active sources ordered by priority descending,
	// name ascending.
	ActiveOrdered(ctx context.Context) ([]model.NewsSource, error)
	FindByID(ctx context.Context, id string) (*model.NewsSource, error)
	Exists(ctx context.Context, id string) (bool, error)
	All(ctx context.Context) ([]model.NewsSource, error)
	CountActive(ctx context.Context) (int64, error)
	IDs(ctx context.Context) ([]string, error)
}

type PreferenceStore interface {
	FindByUser(ctx context.Context, userID string) (*model.UserPreference, error)
	Create(ctx context.Context, pref *model.UserPreference) error
	Update(ctx context.Context, pref *model.UserPreference) error
}

// ProviderRegistry resolves a source to its adapter; nil means the
// provider is unknown or could not be constructed.
type ProviderRegistry interface {
	Create(source *model.NewsSource) provider.Provider
}
