package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"news-aggregator/middleware"
	"news-aggregator/service"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Articles    *ArticleHandler
	Aggregation *AggregationHandler
	Catalog     *CatalogHandler
	Preferences *PreferenceHandler
}

func NewHandlers(query *service.QueryService, aggregator *service.Aggregator,
	prefs *service.PreferenceService, articles service.ArticleStore,
	sources service.SourceStore, categories service.CategoryStore) *Handlers {
	return &Handlers{
		Articles:    NewArticleHandler(query, articles),
		Aggregation: NewAggregationHandler(aggregator, query),
		Catalog:     NewCatalogHandler(sources, categories),
		Preferences: NewPreferenceHandler(prefs),
	}
}

// NewRouter builds the gin engine with CORS, metrics middleware and every
// API route mounted under /api/v1.
func NewRouter(h *Handlers) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-User-ID"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	r.Use(cors.New(config))
	r.Use(middleware.Prometheus("news-aggregator"))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "news-aggregator",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		articles := v1.Group("/articles")
		{
			articles.GET("", h.Articles.Index)
			articles.GET("/search", h.Articles.Search)
			articles.GET("/featured", h.Articles.Featured)
			articles.GET("/latest", h.Articles.Latest)
			articles.GET("/category/:id", h.Articles.ByCategory)
			articles.GET("/source/:id", h.Articles.BySource)
			articles.GET("/:id", h.Articles.Show)
			articles.PATCH("/:id/featured", h.Articles.SetFeatured)
		}

		news := v1.Group("/news")
		{
			news.POST("/aggregate", h.Aggregation.Aggregate)
			news.GET("/statistics", h.Aggregation.Statistics)
			news.GET("/dashboard", h.Aggregation.Dashboard)
		}

		v1.GET("/sources", h.Catalog.Sources)
		v1.GET("/sources/:id", h.Catalog.Source)
		v1.GET("/categories", h.Catalog.Categories)

		prefs := v1.Group("/preferences")
		{
			prefs.GET("", h.Preferences.Show)
			prefs.PUT("", h.Preferences.Update)
			prefs.GET("/feed", h.Preferences.Feed)
			prefs.POST("/sources/:id", h.Preferences.AddSource)
			prefs.DELETE("/sources/:id", h.Preferences.RemoveSource)
			prefs.POST("/categories/:id", h.Preferences.AddCategory)
			prefs.DELETE("/categories/:id", h.Preferences.RemoveCategory)
		}
	}

	return r
}
