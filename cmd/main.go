package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"golang.org/x/time/rate"

	"news-aggregator/api"
	"news-aggregator/cache"
	"news-aggregator/config"
	"news-aggregator/metrics"
	"news-aggregator/provider"
	"news-aggregator/service"
	"news-aggregator/store"
	"news-aggregator/worker"
)

func main() {
	log.Println("Starting News Aggregator...")

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg := config.Load()
	metrics.Init("news-aggregator", "1.0.0", getEnv("ENVIRONMENT", "development"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer db.Client().Disconnect(context.Background())

	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("Failed to ensure indexes:", err)
	}

	articles := store.NewArticleStore(db)
	categories := store.NewCategoryStore(db)
	sources := store.NewSourceStore(db)
	prefs := store.NewPreferenceStore(db)

	if err := sources.Seed(ctx); err != nil {
		log.Fatal("Failed to seed news sources:", err)
	}

	cacheStore := newCacheStore(cfg)

	registry := provider.NewRegistry(cfg)
	invalidator := service.NewCacheInvalidator(cacheStore, categories, sources)
	limiter := rate.NewLimiter(rate.Every(cfg.RateLimit), 1)
	aggregator := service.NewAggregator(sources, articles, categories, registry, invalidator, limiter)

	query := service.NewQueryService(articles, categories, sources, cacheStore, service.CacheTTL{
		Featured:   cfg.TTLFeatured,
		Category:   cfg.TTLCategory,
		Source:     cfg.TTLSource,
		Statistics: cfg.TTLStatistics,
	})
	preferences := service.NewPreferenceService(prefs, sources, categories, query)

	if cfg.NATSUrl != "" {
		nc, err := nats.Connect(cfg.NATSUrl)
		if err != nil {
			log.Fatal("Failed to connect to NATS:", err)
		}
		defer nc.Close()
		log.Println("Connected to NATS")

		w := worker.NewWorker(nc, aggregator, cfg.AggregateInterval)
		go func() {
			if err := w.Start(ctx); err != nil && err != context.Canceled {
				log.Printf("[ERROR] Worker stopped: %v", err)
			}
		}()
	}

	handlers := api.NewHandlers(query, aggregator, preferences, articles, sources, categories)
	router := api.NewRouter(handlers)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("News aggregator listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Received shutdown signal, stopping...")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] Server shutdown: %v", err)
	}

	log.Println("News aggregator stopped")
}

// newCacheStore picks the redis backend when configured and falls back to
// the in-process store otherwise.
func newCacheStore(cfg *config.Config) cache.Store {
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Printf("[WARN] Redis unavailable, using in-memory cache: %v", err)
			return cache.NewMemory()
		}
		log.Println("Connected to Redis cache")
		return redisStore
	}
	return cache.NewMemory()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
