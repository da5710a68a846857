// Command aggregate runs one aggregation cycle from the command line and
// prints the per-source report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"news-aggregator/cache"
	"news-aggregator/config"
	"news-aggregator/model"
	"news-aggregator/provider"
	"news-aggregator/service"
	"news-aggregator/store"
)

func main() {
	sourcesFlag := flag.String("sources", "", "comma-separated provider ids to run (default: all active)")
	limitFlag := flag.Int("limit", 0, "max articles to request per source")
	queryFlag := flag.String("query", "", "search query forwarded to the providers")
	timeoutFlag := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	flag.Parse()

	godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
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

	if err := sources.Seed(ctx); err != nil {
		log.Fatal("Failed to seed news sources:", err)
	}

	var cacheStore cache.Store = cache.NewMemory()
	if cfg.RedisURL != "" {
		if redisStore, err := cache.NewRedis(cfg.RedisURL); err == nil {
			cacheStore = redisStore
		} else {
			log.Printf("[WARN] Redis unavailable, cache invalidation limited to this process: %v", err)
		}
	}

	aggregator := service.NewAggregator(
		sources, articles, categories,
		provider.NewRegistry(cfg),
		service.NewCacheInvalidator(cacheStore, categories, sources),
		rate.NewLimiter(rate.Every(cfg.RateLimit), 1),
	)

	opts := service.AggregateOptions{Limit: *limitFlag, Query: *queryFlag}
	if *sourcesFlag != "" {
		for _, id := range strings.Split(*sourcesFlag, ",") {
			if id = strings.TrimSpace(id); id != "" {
				opts.Sources = append(opts.Sources, id)
			}
		}
	}

	results, err := aggregator.AggregateNews(ctx, opts)
	if err != nil {
		log.Fatal("Aggregation failed:", err)
	}

	printReport(results)
}

func printReport(results map[string]model.SourceResult) {
	if len(results) == 0 {
		fmt.Println("No sources were processed.")
		return
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	failed := 0
	for _, name := range names {
		result := results[name]
		if result.Status == model.RunStatusSuccess {
			fmt.Printf("✓ %-20s fetched=%-4d stored=%d\n", name, result.Fetched, result.Stored)
		} else {
			failed++
			fmt.Printf("✗ %-20s %s\n", name, result.Error)
		}
	}

	fmt.Printf("\n%d source(s) processed, %d failed\n", len(names), failed)
	if failed > 0 {
		os.Exit(1)
	}
}
