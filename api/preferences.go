package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"news-aggregator/service"
)

// userIDHeader identifies the caller; auth is handled upstream at the
// gateway.
const userIDHeader = "X-User-ID"

// PreferenceHandler serves the per-user preference endpoints and the
// personalized feed.
type PreferenceHandler struct {
	prefs *service.PreferenceService
}

func NewPreferenceHandler(prefs *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs}
}

func (h *PreferenceHandler) Show(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	pref, err := h.prefs.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pref})
}

func (h *PreferenceHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var update service.PreferenceUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pref, err := h.prefs.Update(c.Request.Context(), userID, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pref})
}

func (h *PreferenceHandler) AddSource(c *gin.Context) {
	h.mutate(c, func(userID string) (any, error) {
		return h.prefs.AddPreferredSource(c.Request.Context(), userID, c.Param("id"))
	}, "Source not found")
}

func (h *PreferenceHandler) RemoveSource(c *gin.Context) {
	h.mutate(c, func(userID string) (any, error) {
		return h.prefs.RemovePreferredSource(c.Request.Context(), userID, c.Param("id"))
	}, "Source not found")
}

func (h *PreferenceHandler) AddCategory(c *gin.Context) {
	h.mutate(c, func(userID string) (any, error) {
		return h.prefs.AddPreferredCategory(c.Request.Context(), userID, c.Param("id"))
	}, "Category not found")
}

func (h *PreferenceHandler) RemoveCategory(c *gin.Context) {
	h.mutate(c, func(userID string) (any, error) {
		return h.prefs.RemovePreferredCategory(c.Request.Context(), userID, c.Param("id"))
	}, "Category not found")
}

// Feed returns the user's personalized article page.
func (h *PreferenceHandler) Feed(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	feed, pref, err := h.prefs.PersonalizedArticles(c.Request.Context(), userID,
		filtersFromQuery(c), queryInt(c, "page", 1), queryInt(c, "per_page", 0))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load personalized feed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":        feed.Data,
		"pagination":  feed.Pagination,
		"preferences": pref,
	})
}

func (h *PreferenceHandler) mutate(c *gin.Context, op func(userID string) (any, error), notFoundMsg string) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	pref, err := op(userID)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pref})
}

func requireUser(c *gin.Context) (string, bool) {
	userID := c.GetHeader(userIDHeader)
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-ID header is required"})
		return "", false
	}
	return userID, true
}
