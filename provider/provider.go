// Package provider translates external news APIs into the normalized
// article shape the aggregator stores. Each provider is one adapter over
// a shared HTTP helper; failures fetch-side degrade to an empty article
// list so one bad upstream never aborts a run.
package provider

import (
	"context"

	"news-aggregator/model"
)

// Options carries the per-run fetch parameters. Adapters translate these
// into their provider's query conventions and may inject defaults via
// PrepareOptions before fetching.
type Options struct {
	Query    string
	Limit    int
	Page     int
	Category string
	Country  string
	Language string
	Section  string
	DateFrom string
	DateTo   string
	Sort     string
}

// Provider is the per-source adapter contract.
type Provider interface {
	// Name returns the human-readable provider name used in logs.
	Name() string

	// FetchArticles queries the upstream API and returns normalized
	// articles. Network and HTTP errors are logged and yield an empty
	// slice; callers cannot distinguish "nothing new" from a transient
	// upstream failure.
	FetchArticles(ctx context.Context, opts Options) []model.NormalizedArticle

	// PrepareOptions injects provider-specific defaults. Applied once per
	// run after global options are merged and before FetchArticles.
	PrepareOptions(opts Options) Options

	// Available reports whether the adapter holds a credential and base
	// URL. Unavailable adapters are skipped by the aggregator.
	Available() bool
}

// DefaultCategory is the fallback bucket when no provider taxonomy maps.
const DefaultCategory = "General"
