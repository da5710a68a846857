package model

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Known api_provider values. Each maps to one adapter in the provider package.
const (
	ProviderNewsAPI  = "newsapi"
	ProviderGuardian = "guardian"
	ProviderNYTimes  = "nytimes"
)

type NewsSource struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Slug        string             `json:"slug" bson:"slug"`
	APIProvider string             `json:"api_provider" bson:"api_provider"`
	APIEndpoint string             `json:"api_endpoint,omitempty" bson:"api_endpoint,omitempty"`
	APIConfig   map[string]any     `json:"api_config,omitempty" bson:"api_config,omitempty"`
	IsActive    bool               `json:"is_active" bson:"is_active"`
	Priority    int                `json:"priority" bson:"priority"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	LogoURL     string             `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
	WebsiteURL  string             `json:"website_url,omitempty" bson:"website_url,omitempty"`
}

// Slugify turns a display name into a lowercase, dash-separated slug.
// Used for category find-or-create and source slugs.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
