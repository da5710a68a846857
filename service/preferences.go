package service

import (
	"context"
	"errors"
	"log"

	"news-aggregator/model"
)

// PreferenceUpdate carries a partial preference change; nil fields are
// left untouched.
type PreferenceUpdate struct {
	PreferredSources    *[]string `json:"preferred_sources"`
	PreferredCategories *[]string `json:"preferred_categories"`
	PreferredAuthors    *[]string `json:"preferred_authors"`
	Language            *string   `json:"language"`
	Country             *string   `json:"country"`
	ArticlesPerPage     *int      `json:"articles_per_page"`
	ShowImages          *bool     `json:"show_images"`
	AutoRefresh         *bool     `json:"auto_refresh"`
	RefreshInterval     *int      `json:"refresh_interval"`
}

// PreferenceService manages per-user reading preferences and resolves
// them into personalized article queries.
type PreferenceService struct {
	prefs      PreferenceStore
	sources    SourceStore
	categories CategoryStore
	query      *QueryService
}

func NewPreferenceService(prefs PreferenceStore, sources SourceStore, categories CategoryStore,
	query *QueryService) *PreferenceService {
	return &PreferenceService{prefs: prefs, sources: sources, categories: categories, query: query}
}

// GetOrCreate returns the user's preferences, creating the default record
// on first access.
func (s *PreferenceService) GetOrCreate(ctx context.Context, userID string) (*model.UserPreference, error) {
	pref, err := s.prefs.FindByUser(ctx, userID)
	if err == nil {
		return pref, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	pref = model.DefaultPreferences(userID)
	if err := s.prefs.Create(ctx, pref); err != nil {
		// Concurrent first access may have created the record already.
		if existing, findErr := s.prefs.FindByUser(ctx, userID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	log.Printf("[INFO] Created default preferences for user %s", userID)
	return pref, nil
}

// Update applies a partial preference change and persists the result.
func (s *PreferenceService) Update(ctx context.Context, userID string, update PreferenceUpdate) (*model.UserPreference, error) {
	pref, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.PreferredSources != nil {
		pref.PreferredSources = dedupeStrings(*update.PreferredSources)
	}
	if update.PreferredCategories != nil {
		pref.PreferredCategories = dedupeStrings(*update.PreferredCategories)
	}
	if update.PreferredAuthors != nil {
		pref.PreferredAuthors = dedupeStrings(*update.PreferredAuthors)
	}
	if update.Language != nil {
		pref.Language = *update.Language
	}
	if update.Country != nil {
		pref.Country = *update.Country
	}
	if update.ArticlesPerPage != nil {
		pref.ArticlesPerPage = clampLimit(*update.ArticlesPerPage)
	}
	if update.ShowImages != nil {
		pref.ShowImages = *update.ShowImages
	}
	if update.AutoRefresh != nil {
		pref.AutoRefresh = *update.AutoRefresh
	}
	if update.RefreshInterval != nil {
		pref.RefreshInterval = model.ClampRefreshInterval(*update.RefreshInterval)
	}

	if err := s.prefs.Update(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

// AddPreferredSource adds a source to the user's preferred set. Adding an
// already-present source is a no-op; an unknown source id is ErrNotFound.
func (s *PreferenceService) AddPreferredSource(ctx context.Context, userID, sourceID string) (*model.UserPreference, error) {
	ok, err := s.sources.Exists(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.mutateSet(ctx, userID, func(pref *model.UserPreference) {
		pref.PreferredSources = appendUnique(pref.PreferredSources, sourceID)
	})
}

// RemovePreferredSource removes a source from the preferred set; removing
// an absent source is a no-op.
func (s *PreferenceService) RemovePreferredSource(ctx context.Context, userID, sourceID string) (*model.UserPreference, error) {
	return s.mutateSet(ctx, userID, func(pref *model.UserPreference) {
		pref.PreferredSources = removeString(pref.PreferredSources, sourceID)
	})
}

// AddPreferredCategory adds a category to the user's preferred set.
func (s *PreferenceService) AddPreferredCategory(ctx context.Context, userID, categoryID string) (*model.UserPreference, error) {
	ok, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.mutateSet(ctx, userID, func(pref *model.UserPreference) {
		pref.PreferredCategories = appendUnique(pref.PreferredCategories, categoryID)
	})
}

// RemovePreferredCategory removes a category from the preferred set.
func (s *PreferenceService) RemovePreferredCategory(ctx context.Context, userID, categoryID string) (*model.UserPreference, error) {
	return s.mutateSet(ctx, userID, func(pref *model.UserPreference) {
		pref.PreferredCategories = removeString(pref.PreferredCategories, categoryID)
	})
}

func (s *PreferenceService) mutateSet(ctx context.Context, userID string, mutate func(*model.UserPreference)) (*model.UserPreference, error) {
	pref, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	mutate(pref)
	if err := s.prefs.Update(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

// PersonalizedArticles queries articles constrained by the user's
// preference sets on top of the supplied base filters. An empty perPage
// falls back to the user's configured page size.
func (s *PreferenceService) PersonalizedArticles(ctx context.Context, userID string, base ArticleFilters, page, perPage int) (*model.ArticlePage, *model.UserPreference, error) {
	pref, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if perPage < 1 {
		perPage = pref.ArticlesPerPage
	}

	filters := base
	filters.PreferredSources = pref.PreferredSources
	filters.PreferredCategories = pref.PreferredCategories
	filters.PreferredAuthors = pref.PreferredAuthors

	feed, err := s.query.GetPersonalizedArticles(ctx, filters, page, perPage)
	if err != nil {
		return nil, nil, err
	}
	return feed, pref, nil
}

func appendUnique(set []string, value string) []string {
	for _, existing := range set {
		if existing == value {
			return set
		}
	}
	return append(set, value)
}

func removeString(set []string, value string) []string {
	out := set[:0]
	for _, existing := range set {
		if existing != value {
			out = append(out, existing)
		}
	}
	return out
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
