package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"news-aggregator/model"
	"news-aggregator/provider"
)

type fakeArticleStore struct {
	mu       sync.Mutex
	articles []*model.Article
}

func newFakeArticleStore() *fakeArticleStore {
	return &fakeArticleStore{}
}

func (f *fakeArticleStore) Create(ctx context.Context, article *model.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.articles {
		if existing.URL == article.URL {
			return ErrDuplicateURL
		}
	}
	if article.ID.IsZero() {
		article.ID = primitive.NewObjectID()
	}
	stored := *article
	f.articles = append(f.articles, &stored)
	return nil
}

func (f *fakeArticleStore) ExistsByURL(ctx context.Context, url string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.articles {
		if a.URL == url {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeArticleStore) FindByID(ctx context.Context, id string) (*model.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.articles {
		if a.ID.Hex() == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeArticleStore) IncrementViewCount(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.articles {
		if a.ID.Hex() == id {
			a.ViewCount++
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeArticleStore) SetFeatured(ctx context.Context, id string, featured bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.articles {
		if a.ID.Hex() == id {
			a.IsFeatured = featured
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeArticleStore) Find(ctx context.Context, filters ArticleFilters, skip, limit int) ([]model.Article, error) {
	matched := f.matching(filters)
	if skip > len(matched) {
		skip = len(matched)
	}
	matched = matched[skip:]
	if limit >= 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeArticleStore) Count(ctx context.Context, filters ArticleFilters) (int64, error) {
	return int64(len(f.matching(filters))), nil
}

func (f *fakeArticleStore) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, a := range f.articles {
		if !a.CreatedAt.Before(from) && a.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func (f *fakeArticleStore) TopSource(ctx context.Context) (string, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int64{}
	for _, a := range f.articles {
		counts[a.NewsSourceID.Hex()]++
	}
	return topEntry(counts)
}

func (f *fakeArticleStore) TopCategory(ctx context.Context) (string, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int64{}
	for _, a := range f.articles {
		if a.CategoryID != nil {
			counts[a.CategoryID.Hex()]++
		}
	}
	return topEntry(counts)
}

func topEntry(counts map[string]int64) (string, int64, error) {
	var bestID string
	var best int64
	for id, count := range counts {
		if count > best {
			bestID, best = id, count
		}
	}
	return bestID, best, nil
}

func (f *fakeArticleStore) matching(filters ArticleFilters) []model.Article {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := []model.Article{}
	for _, a := range f.articles {
		if matchesFilters(a, filters) {
			matched = append(matched, *a)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].PublishedAt.Equal(matched[j].PublishedAt) {
			return matched[i].PublishedAt.After(matched[j].PublishedAt)
		}
		return matched[i].ID.Hex() < matched[j].ID.Hex()
	})
	return matched
}

func matchesFilters(a *model.Article, filters ArticleFilters) bool {
	if filters.Search != "" {
		needle := strings.ToLower(filters.Search)
		haystack := strings.ToLower(a.Title + " " + a.Description + " " + a.Content)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	if filters.CategoryID != "" {
		if a.CategoryID == nil || a.CategoryID.Hex() != filters.CategoryID {
			return false
		}
	}
	if filters.SourceID != "" && a.NewsSourceID.Hex() != filters.SourceID {
		return false
	}
	if filters.Author != "" && !strings.Contains(strings.ToLower(a.Author), strings.ToLower(filters.Author)) {
		return false
	}
	if filters.DateFrom != nil && a.PublishedAt.Before(*filters.DateFrom) {
		return false
	}
	if filters.DateTo != nil && a.PublishedAt.After(*filters.DateTo) {
		return false
	}
	if filters.Featured != nil && a.IsFeatured != *filters.Featured {
		return false
	}
	if len(filters.PreferredSources) > 0 && !containsString(filters.PreferredSources, a.NewsSourceID.Hex()) {
		return false
	}
	if len(filters.PreferredCategories) > 0 {
		if a.CategoryID == nil || !containsString(filters.PreferredCategories, a.CategoryID.Hex()) {
			return false
		}
	}
	if len(filters.PreferredAuthors) > 0 {
		found := false
		for _, author := range filters.PreferredAuthors {
			if strings.Contains(strings.ToLower(a.Author), strings.ToLower(author)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsString(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

type fakeCategoryStore struct {
	mu         sync.Mutex
	categories []*model.Category
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{}
}

func (f *fakeCategoryStore) FindByID(ctx context.Context, id string) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.ID.Hex() == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeCategoryStore) Exists(ctx context.Context, id string) (bool, error) {
	_, err := f.FindByID(ctx, id)
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeCategoryStore) FindOrCreateBySlug(ctx context.Context, name string) (*model.Category, error) {
	slug := model.Slugify(name)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.Slug == slug {
			copied := *c
			return &copied, nil
		}
	}
	category := &model.Category{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Slug:     slug,
		Color:    model.DefaultCategoryColor,
		IsActive: true,
	}
	f.categories = append(f.categories, category)
	copied := *category
	return &copied, nil
}

func (f *fakeCategoryStore) All(ctx context.Context) ([]model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Category{}
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategoryStore) CountActive(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, c := range f.categories {
		if c.IsActive {
			count++
		}
	}
	return count, nil
}

func (f *fakeCategoryStore) IDs(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []string{}
	for _, c := range f.categories {
		ids = append(ids, c.ID.Hex())
	}
	return ids, nil
}

type fakeSourceStore struct {
	mu      sync.Mutex
	sources []*model.NewsSource
}

func newFakeSourceStore(sources ...*model.NewsSource) *fakeSourceStore {
	f := &fakeSourceStore{}
	for _, s := range sources {
		if s.ID.IsZero() {
			s.ID = primitive.NewObjectID()
		}
		f.sources = append(f.sources, s)
	}
	return f
}

func (f *fakeSourceStore) ActiveOrdered(ctx context.Context) ([]model.NewsSource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.NewsSource{}
	for _, s := range f.sources {
		if s.IsActive {
			out = append(out, *s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (f *fakeSourceStore) FindByID(ctx context.Context, id string) (*model.NewsSource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sources {
		if s.ID.Hex() == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeSourceStore) Exists(ctx context.Context, id string) (bool, error) {
	_, err := f.FindByID(ctx, id)
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeSourceStore) All(ctx context.Context) ([]model.NewsSource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.NewsSource{}
	for _, s := range f.sources {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSourceStore) CountActive(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, s := range f.sources {
		if s.IsActive {
			count++
		}
	}
	return count, nil
}

func (f *fakeSourceStore) IDs(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []string{}
	for _, s := range f.sources {
		ids = append(ids, s.ID.Hex())
	}
	return ids, nil
}

type fakePreferenceStore struct {
	mu    sync.Mutex
	prefs map[string]*model.UserPreference
}

func newFakePreferenceStore() *fakePreferenceStore {
	return &fakePreferenceStore{prefs: make(map[string]*model.UserPreference)}
}

func (f *fakePreferenceStore) FindByUser(ctx context.Context, userID string) (*model.UserPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pref, ok := f.prefs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *pref
	return &copied, nil
}

func (f *fakePreferenceStore) Create(ctx context.Context, pref *model.UserPreference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pref.ID.IsZero() {
		pref.ID = primitive.NewObjectID()
	}
	copied := *pref
	f.prefs[pref.UserID] = &copied
	return nil
}

func (f *fakePreferenceStore) Update(ctx context.Context, pref *model.UserPreference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.prefs[pref.UserID]; !ok {
		return ErrNotFound
	}
	copied := *pref
	f.prefs[pref.UserID] = &copied
	return nil
}

// fakeProvider is a scripted adapter returned by fakeRegistry.
type fakeProvider struct {
	name        string
	available   bool
	articles    []model.NormalizedArticle
	panicOnCall bool
	gotOptions  provider.Options
}

func (p *fakeProvider) Name() string    { return p.name }
func (p *fakeProvider) Available() bool { return p.available }

func (p *fakeProvider) PrepareOptions(opts provider.Options) provider.Options {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	return opts
}

func (p *fakeProvider) FetchArticles(ctx context.Context, opts provider.Options) []model.NormalizedArticle {
	if p.panicOnCall {
		panic("adapter exploded")
	}
	p.gotOptions = opts
	return p.articles
}

// fakeRegistry resolves api_provider ids to scripted adapters.
type fakeRegistry struct {
	providers map[string]provider.Provider
}

func (r *fakeRegistry) Create(source *model.NewsSource) provider.Provider {
	return r.providers[source.APIProvider]
}
