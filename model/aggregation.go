package model

// NormalizedArticle is the provider-agnostic shape every adapter produces
// before storage. PublishedAt stays a raw string here; the aggregator
// parses it and falls back to ingestion time when it cannot.
type NormalizedArticle struct {
	ExternalID  string         `json:"external_id,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Content     string         `json:"content,omitempty"`
	URL         string         `json:"url"`
	ImageURL    string         `json:"image_url,omitempty"`
	Author      string         `json:"author,omitempty"`
	PublishedAt string         `json:"published_at,omitempty"`
	Category    string         `json:"category,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// SourceResult is one source's entry in the aggregation run report.
type SourceResult struct {
	Fetched int    `json:"fetched"`
	Stored  int    `json:"stored"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

const (
	RunStatusSuccess = "success"
	RunStatusError   = "error"
)

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	HasMore     bool  `json:"has_more"`
}

// ArticlePage is the paginated result of a filtered article query.
type ArticlePage struct {
	Data       []Article  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// EmptyArticlePage is what queries over nonexistent filter targets return.
func EmptyArticlePage(page, perPage int) *ArticlePage {
	return &ArticlePage{
		Data: []Article{},
		Pagination: Pagination{
			CurrentPage: page,
			LastPage:    1,
			PerPage:     perPage,
			Total:       0,
			HasMore:     false,
		},
	}
}

type SourceCount struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ArticleCount int64  `json:"articles_count"`
}

type CategoryCount struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ArticleCount int64  `json:"articles_count"`
}

type Statistics struct {
	TotalArticles       int64          `json:"total_articles"`
	ArticlesToday       int64          `json:"articles_today"`
	ArticlesThisWeek    int64          `json:"articles_this_week"`
	TotalSources        int64          `json:"total_sources"`
	TotalCategories     int64          `json:"total_categories"`
	MostActiveSource    *SourceCount   `json:"most_active_source"`
	MostPopularCategory *CategoryCount `json:"most_popular_category"`
}
