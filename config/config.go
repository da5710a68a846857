package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port     string
	MongoURI string
	MongoDB  string
	RedisURL string
	NATSUrl  string

	// Provider credentials and base URLs. Empty credential means the
	// adapter reports itself unavailable and the source is skipped.
	NewsAPIKey      string
	NewsAPIBaseURL  string
	GuardianAPIKey  string
	GuardianBaseURL string
	NYTimesAPIKey   string
	NYTimesBaseURL  string

	HTTPTimeout time.Duration
	RateLimit   time.Duration

	// AggregateInterval drives the worker scheduler; zero disables
	// periodic runs.
	AggregateInterval time.Duration

	// Cache TTLs per operation class.
	TTLFeatured   time.Duration
	TTLCategory   time.Duration
	TTLSource     time.Duration
	TTLStatistics time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "newsdb"),
		RedisURL: getEnv("REDIS_URL", ""),
		NATSUrl:  getEnv("NATS_URL", ""),

		NewsAPIKey:      getEnv("NEWS_API_KEY", ""),
		NewsAPIBaseURL:  getEnv("NEWS_API_BASE_URL", "https://newsapi.org/v2/"),
		GuardianAPIKey:  getEnv("GUARDIAN_API_KEY", ""),
		GuardianBaseURL: getEnv("GUARDIAN_BASE_URL", "https://content.guardianapis.com/"),
		NYTimesAPIKey:   getEnv("NYTIMES_API_KEY", ""),
		NYTimesBaseURL:  getEnv("NYTIMES_BASE_URL", "https://api.nytimes.com/svc/"),

		HTTPTimeout: getDurationEnv("HTTP_TIMEOUT", "30s"),
		RateLimit:   getDurationEnv("RATE_LIMIT", "1s"),

		AggregateInterval: getDurationEnv("AGGREGATE_INTERVAL", "0s"),

		TTLFeatured:   ttlEnv("CACHE_TTL_FEATURED_ARTICLES", 300),
		TTLCategory:   ttlEnv("CACHE_TTL_CATEGORY_ARTICLES", 180),
		TTLSource:     ttlEnv("CACHE_TTL_SOURCE_ARTICLES", 180),
		TTLStatistics: ttlEnv("CACHE_TTL_STATISTICS", 300),
	}

	log.Printf("Config loaded - MongoDB: %s, HTTPTimeout: %v, RateLimit: %v",
		cfg.MongoDB, cfg.HTTPTimeout, cfg.RateLimit)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func ttlEnv(key string, defaultSeconds int) time.Duration {
	return time.Duration(getIntEnv(key, defaultSeconds)) * time.Second
}
