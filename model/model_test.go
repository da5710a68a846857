package model

import (
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Technology", "technology"},
		{"US News", "us-news"},
		{"  Real  Estate  ", "real-estate"},
		{"Arts & Culture", "arts-culture"},
		{"U.S.", "u-s"},
		{"", ""},
		{"---", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestArticleNormalize(t *testing.T) {
	article := &Article{
		Title:       "  Spaced out  ",
		URL:         " https://example.com/a ",
		Author:      " Someone ",
		Description: "\tlead\n",
	}
	article.Normalize()

	if article.Title != "Spaced out" || article.URL != "https://example.com/a" {
		t.Errorf("normalize left whitespace: %+v", article)
	}
	if article.ExternalID != article.URL {
		t.Errorf("external_id = %q, want URL fallback", article.ExternalID)
	}

	keyed := &Article{Title: "t", URL: "https://example.com/b", ExternalID: "prov-123"}
	keyed.Normalize()
	if keyed.ExternalID != "prov-123" {
		t.Errorf("existing external_id was overwritten: %q", keyed.ExternalID)
	}
}

func TestClampRefreshInterval(t *testing.T) {
	tests := []struct {
		input int
		want  int
	}{
		{0, MinRefreshInterval},
		{59, MinRefreshInterval},
		{60, 60},
		{300, 300},
		{3600, 3600},
		{3601, MaxRefreshInterval},
	}

	for _, tt := range tests {
		if got := ClampRefreshInterval(tt.input); got != tt.want {
			t.Errorf("ClampRefreshInterval(%d) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestDefaultPreferences(t *testing.T) {
	pref := DefaultPreferences("user-9")
	if pref.UserID != "user-9" {
		t.Errorf("user_id = %q", pref.UserID)
	}
	if pref.PreferredSources == nil || pref.PreferredCategories == nil || pref.PreferredAuthors == nil {
		t.Error("preference sets must be empty slices, not nil")
	}
	if pref.RefreshInterval != DefaultRefreshInterval {
		t.Errorf("refresh_interval = %d, want %d", pref.RefreshInterval, DefaultRefreshInterval)
	}
}

func TestEmptyArticlePage(t *testing.T) {
	page := EmptyArticlePage(4, 25)
	if page.Pagination.CurrentPage != 4 || page.Pagination.PerPage != 25 {
		t.Errorf("pagination = %+v", page.Pagination)
	}
	if page.Pagination.Total != 0 || page.Pagination.LastPage != 1 || page.Pagination.HasMore {
		t.Errorf("pagination = %+v, want empty-result shape", page.Pagination)
	}
	if page.Data == nil || len(page.Data) != 0 {
		t.Error("data must be an empty slice")
	}
}

func TestArticleIsRecent(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	fresh := &Article{PublishedAt: now.Add(-2 * time.Hour)}
	stale := &Article{PublishedAt: now.Add(-30 * time.Hour)}

	if !fresh.IsRecent(now) {
		t.Error("2h old article should be recent")
	}
	if stale.IsRecent(now) {
		t.Error("30h old article should not be recent")
	}
}
