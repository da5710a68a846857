package provider

import (
	"context"
	"log"
	"net/url"
	"strconv"
	"time"

	"news-aggregator/model"
)

// NYTimes adapts the New York Times Article Search API.
type NYTimes struct {
	source *model.NewsSource
	apiKey string
	client *apiClient
}

func NewNYTimes(source *model.NewsSource, apiKey, baseURL string, timeout time.Duration) *NYTimes {
	return &NYTimes{
		source: source,
		apiKey: apiKey,
		client: newAPIClient(model.ProviderNYTimes, baseURL, timeout),
	}
}

func (p *NYTimes) Name() string { return "New York Times" }

func (p *NYTimes) Available() bool {
	return p.apiKey != "" && p.client.configured()
}

// PrepareOptions resets the page index; the article search API pages from
// zero where the other providers page from one.
func (p *NYTimes) PrepareOptions(opts Options) Options {
	opts.Page = 0
	return opts
}

type nytResponse struct {
	Status   string `json:"status"`
	Response struct {
		Docs []nytDoc `json:"docs"`
	} `json:"response"`
}

type nytDoc struct {
	ID             string `json:"_id"`
	WebURL         string `json:"web_url"`
	Abstract       string `json:"abstract"`
	LeadParagraph  string `json:"lead_paragraph"`
	PubDate        string `json:"pub_date"`
	SectionName    string `json:"section_name"`
	SubsectionName string `json:"subsection_name"`
	DocumentType   string `json:"document_type"`
	TypeOfMaterial string `json:"type_of_material"`
	WordCount      int    `json:"word_count"`
	Headline       struct {
		Main          string `json:"main"`
		PrintHeadline string `json:"print_headline"`
	} `json:"headline"`
	Byline struct {
		Original string `json:"original"`
	} `json:"byline"`
	Keywords   []nytKeyword `json:"keywords"`
	Multimedia []nytMedia   `json:"multimedia"`
}

type nytKeyword struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type nytMedia struct {
	URL   string `json:"url"`
	Width int    `json:"width"`
}

func (p *NYTimes) FetchArticles(ctx context.Context, opts Options) []model.NormalizedArticle {
	params := url.Values{}
	params.Set("api-key", p.apiKey)
	if opts.Query != "" {
		params.Set("q", opts.Query)
	}
	if opts.DateFrom != "" {
		params.Set("begin_date", opts.DateFrom)
	}
	if opts.DateTo != "" {
		params.Set("end_date", opts.DateTo)
	}
	if opts.Sort != "" {
		params.Set("sort", opts.Sort)
	}
	params.Set("page", strconv.Itoa(opts.Page))

	endpoint := p.source.APIEndpoint
	if endpoint == "" {
		endpoint = "search/v2/articlesearch.json"
	}

	var resp nytResponse
	if err := p.client.getJSON(ctx, endpoint, params, &resp); err != nil {
		log.Printf("[ERROR] NYTimes request failed: %v", err)
		return nil
	}

	articles := make([]model.NormalizedArticle, 0, len(resp.Response.Docs))
	for _, doc := range resp.Response.Docs {
		articles = append(articles, p.transform(doc))
	}
	return articles
}

func (p *NYTimes) transform(doc nytDoc) model.NormalizedArticle {
	title := doc.Headline.Main
	if title == "" {
		title = doc.Headline.PrintHeadline
	}

	keywords := make([]map[string]string, 0, len(doc.Keywords))
	for _, kw := range doc.Keywords {
		keywords = append(keywords, map[string]string{"name": kw.Name, "value": kw.Value})
	}

	return model.NormalizedArticle{
		ExternalID:  doc.ID,
		Title:       title,
		Description: doc.Abstract,
		Content:     doc.LeadParagraph,
		URL:         doc.WebURL,
		ImageURL:    largestImageURL(doc.Multimedia),
		Author:      doc.Byline.Original,
		PublishedAt: doc.PubDate,
		Category:    p.extractCategory(doc),
		Metadata: map[string]any{
			"section":          doc.SectionName,
			"subsection":       doc.SubsectionName,
			"document_type":    doc.DocumentType,
			"type_of_material": doc.TypeOfMaterial,
			"word_count":       doc.WordCount,
			"keywords":         keywords,
		},
	}
}

// largestImageURL picks the widest multimedia rendition; NYT ships
// relative paths.
func largestImageURL(media []nytMedia) string {
	var best nytMedia
	for _, m := range media {
		if m.Width > best.Width {
			best = m
		}
	}
	if best.URL == "" {
		return ""
	}
	return "https://www.nytimes.com/" + best.URL
}

var nytSectionCategories = map[string]string{
	"Sports":      "Sports",
	"Technology":  "Technology",
	"Business":    "Business",
	"Politics":    "Politics",
	"World":       "World",
	"Science":     "Science",
	"Health":      "Health",
	"Arts":        "Culture",
	"Style":       "Lifestyle",
	"Food":        "Food",
	"Travel":      "Travel",
	"Real Estate": "Real Estate",
	"Education":   "Education",
	"Opinion":     "Opinion",
	"U.S.":        "US News",
	"New York":    "Local News",
}

// extractCategory cascades: section name, then subject keywords against
// the category vocabulary, then the generic default.
func (p *NYTimes) extractCategory(doc nytDoc) string {
	if category := mapCategory(nytSectionCategories, doc.SectionName); category != "" {
		return category
	}
	for _, kw := range doc.Keywords {
		if kw.Name == "subject" && isCategoryTerm(kw.Value) {
			return kw.Value
		}
	}
	return DefaultCategory
}
