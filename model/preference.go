package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Preference defaults and bounds.
const (
	DefaultLanguage        = "en"
	DefaultCountry         = "us"
	DefaultArticlesPerPage = 20
	DefaultRefreshInterval = 300
	MinRefreshInterval     = 60
	MaxRefreshInterval     = 3600
)

type UserPreference struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID              string             `json:"user_id" bson:"user_id"`
	PreferredSources    []string           `json:"preferred_sources" bson:"preferred_sources"`
	PreferredCategories []string           `json:"preferred_categories" bson:"preferred_categories"`
	PreferredAuthors    []string           `json:"preferred_authors" bson:"preferred_authors"`
	Language            string             `json:"language" bson:"language"`
	Country             string             `json:"country" bson:"country"`
	ArticlesPerPage     int                `json:"articles_per_page" bson:"articles_per_page"`
	ShowImages          bool               `json:"show_images" bson:"show_images"`
	AutoRefresh         bool               `json:"auto_refresh" bson:"auto_refresh"`
	RefreshInterval     int                `json:"refresh_interval" bson:"refresh_interval"`
}

// DefaultPreferences returns a fresh preference record for a user that has
// never configured anything.
func DefaultPreferences(userID string) *UserPreference {
	return &UserPreference{
		UserID:              userID,
		PreferredSources:    []string{},
		PreferredCategories: []string{},
		PreferredAuthors:    []string{},
		Language:            DefaultLanguage,
		Country:             DefaultCountry,
		ArticlesPerPage:     DefaultArticlesPerPage,
		ShowImages:          true,
		AutoRefresh:         false,
		RefreshInterval:     DefaultRefreshInterval,
	}
}

// ClampRefreshInterval bounds an interval to [MinRefreshInterval, MaxRefreshInterval].
func ClampRefreshInterval(seconds int) int {
	if seconds < MinRefreshInterval {
		return MinRefreshInterval
	}
	if seconds > MaxRefreshInterval {
		return MaxRefreshInterval
	}
	return seconds
}
