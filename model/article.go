package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Article struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	NewsSourceID primitive.ObjectID `json:"news_source_id" bson:"news_source_id"`
	CategoryID   *primitive.ObjectID `json:"category_id,omitempty" bson:"category_id,omitempty"`
	ExternalID   string             `json:"external_id,omitempty" bson:"external_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	Content      string             `json:"content,omitempty" bson:"content,omitempty"`
	URL          string             `json:"url" bson:"url"`
	ImageURL     string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Author       string             `json:"author,omitempty" bson:"author,omitempty"`
	PublishedAt  time.Time          `json:"published_at" bson:"published_at"`
	Metadata     map[string]any     `json:"metadata,omitempty" bson:"metadata,omitempty"`
	ViewCount    int64              `json:"view_count" bson:"view_count"`
	IsFeatured   bool               `json:"is_featured" bson:"is_featured"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// Normalize trims free-text fields and backfills the external id from the
// URL when the provider did not supply one.
func (a *Article) Normalize() {
	a.Title = strings.TrimSpace(a.Title)
	a.Description = strings.TrimSpace(a.Description)
	a.Content = strings.TrimSpace(a.Content)
	a.Author = strings.TrimSpace(a.Author)
	a.URL = strings.TrimSpace(a.URL)
	if a.ExternalID == "" {
		a.ExternalID = a.URL
	}
}

func (a *Article) HasImage() bool {
	return a.ImageURL != ""
}

// IsRecent reports whether the article was published within the last day.
func (a *Article) IsRecent(now time.Time) bool {
	return a.PublishedAt.After(now.Add(-24 * time.Hour))
}
