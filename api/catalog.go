package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"news-aggregator/service"
)

// CatalogHandler serves the source and category listings.
type CatalogHandler struct {
	sources    service.SourceStore
	categories service.CategoryStore
}

func NewCatalogHandler(sources service.SourceStore, categories service.CategoryStore) *CatalogHandler {
	return &CatalogHandler{sources: sources, categories: categories}
}

func (h *CatalogHandler) Sources(c *gin.Context) {
	sources, err := h.sources.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sources"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sources})
}

func (h *CatalogHandler) Source(c *gin.Context) {
	source, err := h.sources.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load source"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": source})
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.categories.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}
