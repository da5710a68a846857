// Package cache fronts read-heavy query results with TTL-based caching.
// Two capability levels exist behind one interface: backends with tag
// support invalidate whole groups at once, others fall back to evicting
// an enumerated set of known keys. Cache failures never fail a request;
// callers log and recompute from storage.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"
)

// Store is the cache collaborator contract.
type Store interface {
	// Get unmarshals the cached value into out. The bool is false on miss.
	Get(ctx context.Context, key string, out any) (bool, error)

	// Set stores the value under key for ttl, associating it with the
	// given tag groups when the backend supports them.
	Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) error

	// Forget evicts the given keys.
	Forget(ctx context.Context, keys ...string) error

	// FlushTags evicts every key associated with any of the tags.
	// Returns ErrTagsUnsupported on backends without tag support.
	FlushTags(ctx context.Context, tags ...string) error

	// SupportsTags reports the backend capability, detected at startup.
	SupportsTags() bool
}

// ErrTagsUnsupported signals the caller to use enumerated invalidation.
var ErrTagsUnsupported = errors.New("cache backend does not support tags")

// Tag groups shared by the query service and the invalidator.
const (
	TagArticles   = "articles"
	TagFeatured   = "featured"
	TagCategories = "categories"
	TagSources    = "sources"
	TagStatistics = "statistics"
)

const keyPrefix = "news_aggregator"

// Key builds a deterministic cache key from an operation name and its
// parameter set. Parameters are sorted so equal sets always hash equal.
func Key(operation string, params map[string]any) string {
	key := keyPrefix + ":" + operation
	if len(params) == 0 {
		return key
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	h := md5.New()
	for _, name := range names {
		fmt.Fprintf(h, "%s=%v;", name, params[name])
	}
	return key + ":" + hex.EncodeToString(h.Sum(nil))
}
