package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"news-aggregator/service"
)

// ArticleHandler serves the article read endpoints.
type ArticleHandler struct {
	query    *service.QueryService
	articles service.ArticleStore
}

func NewArticleHandler(query *service.QueryService, articles service.ArticleStore) *ArticleHandler {
	return &ArticleHandler{query: query, articles: articles}
}

// Index returns a filtered, paginated article listing.
func (h *ArticleHandler) Index(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 0)

	result, err := h.query.GetArticles(c.Request.Context(), filtersFromQuery(c), page, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load articles"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Search is the dedicated full-text endpoint; q is required.
func (h *ArticleHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}

	filters := filtersFromQuery(c)
	filters.Search = q

	result, err := h.query.GetArticles(c.Request.Context(), filters, queryInt(c, "page", 1), queryInt(c, "per_page", 0))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ArticleHandler) Featured(c *gin.Context) {
	articles, err := h.query.GetFeaturedArticles(c.Request.Context(), queryInt(c, "limit", 5))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load featured articles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": articles})
}

func (h *ArticleHandler) Latest(c *gin.Context) {
	articles, err := h.query.GetLatestArticles(c.Request.Context(), queryInt(c, "limit", 10))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load latest articles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": articles})
}

func (h *ArticleHandler) ByCategory(c *gin.Context) {
	articles, err := h.query.GetArticlesByCategory(c.Request.Context(), c.Param("id"), queryInt(c, "limit", 20))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load articles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": articles})
}

func (h *ArticleHandler) BySource(c *gin.Context) {
	articles, err := h.query.GetArticlesBySource(c.Request.Context(), c.Param("id"), queryInt(c, "limit", 20))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load articles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": articles})
}

// Show returns one article and counts the view.
func (h *ArticleHandler) Show(c *gin.Context) {
	article, err := h.query.GetArticle(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load article"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": article})
}

// SetFeatured toggles the featured flag on an article.
func (h *ArticleHandler) SetFeatured(c *gin.Context) {
	var req struct {
		Featured *bool `json:"featured" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.articles.SetFeatured(c.Request.Context(), c.Param("id"), *req.Featured)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update article"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// filtersFromQuery maps the shared listing query parameters onto the
// service filter set.
func filtersFromQuery(c *gin.Context) service.ArticleFilters {
	filters := service.ArticleFilters{
		Search:     c.Query("search"),
		CategoryID: c.Query("category_id"),
		SourceID:   c.Query("source_id"),
		Author:     c.Query("author"),
	}

	if from, ok := parseDate(c.Query("date_from")); ok {
		filters.DateFrom = &from
	}
	if to, ok := parseDate(c.Query("date_to")); ok {
		filters.DateTo = &to
	}
	if raw := c.Query("featured"); raw != "" {
		if featured, err := strconv.ParseBool(raw); err == nil {
			filters.Featured = &featured
		}
	}
	return filters
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
