package provider

import (
	"context"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"news-aggregator/model"
)

// Guardian adapts the Guardian Content API search endpoint.
type Guardian struct {
	source *model.NewsSource
	apiKey string
	client *apiClient
}

func NewGuardian(source *model.NewsSource, apiKey, baseURL string, timeout time.Duration) *Guardian {
	return &Guardian{
		source: source,
		apiKey: apiKey,
		client: newAPIClient(model.ProviderGuardian, baseURL, timeout),
	}
}

func (p *Guardian) Name() string { return "The Guardian" }

func (p *Guardian) Available() bool {
	return p.apiKey != "" && p.client.configured()
}

func (p *Guardian) PrepareOptions(opts Options) Options {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	return opts
}

type guardianResponse struct {
	Response struct {
		Status  string           `json:"status"`
		Results []guardianResult `json:"results"`
	} `json:"response"`
}

type guardianResult struct {
	ID                 string         `json:"id"`
	SectionID          string         `json:"sectionId"`
	SectionName        string         `json:"sectionName"`
	WebPublicationDate string         `json:"webPublicationDate"`
	WebTitle           string         `json:"webTitle"`
	WebURL             string         `json:"webUrl"`
	PillarID           string         `json:"pillarId"`
	PillarName         string         `json:"pillarName"`
	Fields             guardianFields `json:"fields"`
	Tags               []guardianTag  `json:"tags"`
}

type guardianFields struct {
	Headline  string `json:"headline"`
	TrailText string `json:"trailText"`
	Body      string `json:"body"`
	Thumbnail string `json:"thumbnail"`
	Byline    string `json:"byline"`
}

type guardianTag struct {
	Type     string `json:"type"`
	WebTitle string `json:"webTitle"`
}

func (p *Guardian) FetchArticles(ctx context.Context, opts Options) []model.NormalizedArticle {
	params := url.Values{}
	params.Set("api-key", p.apiKey)
	params.Set("page-size", strconv.Itoa(opts.Limit))
	params.Set("show-fields", "headline,trailText,body,thumbnail,byline,publication")
	params.Set("show-tags", "all")
	if opts.Sort != "" {
		params.Set("order-by", opts.Sort)
	} else {
		params.Set("order-by", "newest")
	}
	if opts.Section != "" {
		params.Set("section", opts.Section)
	}
	if opts.Query != "" {
		params.Set("q", opts.Query)
	}
	if opts.DateFrom != "" {
		params.Set("from-date", opts.DateFrom)
	}
	if opts.DateTo != "" {
		params.Set("to-date", opts.DateTo)
	}

	endpoint := p.source.APIEndpoint
	if endpoint == "" {
		endpoint = "search"
	}

	var resp guardianResponse
	if err := p.client.getJSON(ctx, endpoint, params, &resp); err != nil {
		log.Printf("[ERROR] Guardian request failed: %v", err)
		return nil
	}

	articles := make([]model.NormalizedArticle, 0, len(resp.Response.Results))
	for _, r := range resp.Response.Results {
		articles = append(articles, p.transform(r))
	}
	return articles
}

func (p *Guardian) transform(r guardianResult) model.NormalizedArticle {
	title := r.Fields.Headline
	if title == "" {
		title = r.WebTitle
	}

	author := r.Fields.Byline
	if author == "" {
		author = authorFromTags(r.Tags)
	}

	tagMeta := make([]map[string]string, 0, len(r.Tags))
	for _, tag := range r.Tags {
		tagMeta = append(tagMeta, map[string]string{"type": tag.Type, "webTitle": tag.WebTitle})
	}

	return model.NormalizedArticle{
		ExternalID:  r.ID,
		Title:       title,
		Description: r.Fields.TrailText,
		Content:     r.Fields.Body,
		URL:         r.WebURL,
		ImageURL:    r.Fields.Thumbnail,
		Author:      author,
		PublishedAt: r.WebPublicationDate,
		Category:    p.extractCategory(r),
		Metadata: map[string]any{
			"section_id":   r.SectionID,
			"section_name": r.SectionName,
			"pillar_id":    r.PillarID,
			"pillar_name":  r.PillarName,
			"tags":         tagMeta,
		},
	}
}

var guardianSectionCategories = map[string]string{
	"sport":        "Sports",
	"technology":   "Technology",
	"business":     "Business",
	"politics":     "Politics",
	"world":        "World",
	"uk-news":      "UK News",
	"us-news":      "US News",
	"science":      "Science",
	"environment":  "Environment",
	"culture":      "Culture",
	"lifeandstyle": "Lifestyle",
	"fashion":      "Fashion",
	"food":         "Food",
	"travel":       "Travel",
	"money":        "Finance",
	"media":        "Media",
	"education":    "Education",
	"health":       "Health",
}

var guardianPillarCategories = map[string]string{
	"news":      "General",
	"opinion":   "Opinion",
	"sport":     "Sports",
	"arts":      "Culture",
	"lifestyle": "Lifestyle",
}

// extractCategory cascades: section id, then pillar name, then keyword
// tags against the category vocabulary, then the generic default.
func (p *Guardian) extractCategory(r guardianResult) string {
	if category := mapCategory(guardianSectionCategories, r.SectionID); category != "" {
		return category
	}
	if category := mapCategory(guardianPillarCategories, strings.ToLower(r.PillarName)); category != "" {
		return category
	}
	for _, tag := range r.Tags {
		if tag.Type == "keyword" && isCategoryTerm(tag.WebTitle) {
			return tag.WebTitle
		}
	}
	return DefaultCategory
}

func authorFromTags(tags []guardianTag) string {
	for _, tag := range tags {
		if tag.Type == "contributor" {
			return tag.WebTitle
		}
	}
	return ""
}
