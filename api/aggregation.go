package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"news-aggregator/service"
)

// AggregationHandler serves the aggregation trigger and the corpus-wide
// reporting endpoints.
type AggregationHandler struct {
	aggregator *service.Aggregator
	query      *service.QueryService
}

func NewAggregationHandler(aggregator *service.Aggregator, query *service.QueryService) *AggregationHandler {
	return &AggregationHandler{aggregator: aggregator, query: query}
}

// Aggregate runs one aggregation cycle synchronously and returns the
// per-source report.
func (h *AggregationHandler) Aggregate(c *gin.Context) {
	var opts service.AggregateOptions
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&opts); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	results, err := h.aggregator.AggregateNews(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Aggregation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "results": results})
}

func (h *AggregationHandler) Statistics(c *gin.Context) {
	stats, err := h.query.GetStatistics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// Dashboard bundles statistics with featured and latest articles into one
// response for frontend landing pages.
func (h *AggregationHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.query.GetStatistics(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
		return
	}
	featured, err := h.query.GetFeaturedArticles(ctx, queryInt(c, "featured_limit", 5))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load featured articles"})
		return
	}
	latest, err := h.query.GetLatestArticles(ctx, queryInt(c, "latest_limit", 10))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load latest articles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"statistics":        stats,
		"featured_articles": featured,
		"latest_articles":   latest,
	})
}
