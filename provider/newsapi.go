package provider

import (
	"context"
	"log"
	"math/rand"
	"net/url"
	"strconv"
	"strings"
	"time"

	"news-aggregator/model"
)

// NewsAPI adapts the newsapi.org "everything" endpoint.
type NewsAPI struct {
	source *model.NewsSource
	apiKey string
	client *apiClient
}

func NewNewsAPI(source *model.NewsSource, apiKey, baseURL string, timeout time.Duration) *NewsAPI {
	return &NewsAPI{
		source: source,
		apiKey: apiKey,
		client: newAPIClient(model.ProviderNewsAPI, baseURL, timeout),
	}
}

func (p *NewsAPI) Name() string { return "NewsAPI" }

func (p *NewsAPI) Available() bool {
	return p.apiKey != "" && p.client.configured()
}

// newsAPITopics seeds a search term when none is given; the everything
// endpoint rejects requests without a query.
var newsAPITopics = []string{"technology", "business", "sports", "health", "science", "politics"}

func (p *NewsAPI) PrepareOptions(opts Options) Options {
	if opts.Query == "" {
		opts.Query = newsAPITopics[rand.Intn(len(newsAPITopics))]
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	return opts
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

func (p *NewsAPI) FetchArticles(ctx context.Context, opts Options) []model.NormalizedArticle {
	params := url.Values{}
	params.Set("apiKey", p.apiKey)
	params.Set("q", opts.Query)
	params.Set("pageSize", strconv.Itoa(opts.Limit))
	if opts.Sort != "" {
		params.Set("sortBy", opts.Sort)
	} else {
		params.Set("sortBy", "publishedAt")
	}
	if opts.Language != "" {
		params.Set("language", opts.Language)
	} else {
		params.Set("language", "en")
	}
	if opts.Category != "" {
		params.Set("category", opts.Category)
	}
	if opts.Country != "" {
		params.Set("country", opts.Country)
	}
	if opts.DateFrom != "" {
		params.Set("from", opts.DateFrom)
	}
	if opts.DateTo != "" {
		params.Set("to", opts.DateTo)
	}

	endpoint := p.source.APIEndpoint
	if endpoint == "" {
		endpoint = "everything"
	}

	var resp newsAPIResponse
	if err := p.client.getJSON(ctx, endpoint, params, &resp); err != nil {
		log.Printf("[ERROR] NewsAPI request failed: %v", err)
		return nil
	}

	articles := make([]model.NormalizedArticle, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		articles = append(articles, p.transform(a))
	}
	return articles
}

func (p *NewsAPI) transform(a newsAPIArticle) model.NormalizedArticle {
	return model.NormalizedArticle{
		ExternalID:  a.URL,
		Title:       a.Title,
		Description: a.Description,
		Content:     a.Content,
		URL:         a.URL,
		ImageURL:    a.URLToImage,
		Author:      a.Author,
		PublishedAt: a.PublishedAt,
		Category:    p.extractCategory(a),
		Metadata: map[string]any{
			"source_name": a.Source.Name,
			"source_id":   a.Source.ID,
		},
	}
}

// newsAPISourceCategories maps well-known outlet names onto the category
// vocabulary. The everything endpoint carries no category field, so outlet
// name is the only signal.
var newsAPISourceCategories = map[string]string{
	"BBC News":           "General",
	"CNN":                "General",
	"Reuters":            "General",
	"Associated Press":   "General",
	"The Guardian":       "General",
	"The New York Times": "General",
	"TechCrunch":         "Technology",
	"Wired":              "Technology",
	"Ars Technica":       "Technology",
	"ESPN":               "Sports",
	"BBC Sport":          "Sports",
	"Bloomberg":          "Business",
	"Financial Times":    "Business",
	"Forbes":             "Business",
}

func (p *NewsAPI) extractCategory(a newsAPIArticle) string {
	name := strings.TrimSpace(a.Source.Name)
	if category := mapCategory(newsAPISourceCategories, name); category != "" {
		return category
	}
	return DefaultCategory
}
