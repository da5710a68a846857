package provider

import (
	"log"
	"time"

	"news-aggregator/config"
	"news-aggregator/model"
)

// Registry builds adapters for configured sources. Credentials come from
// the injected configuration, validated once at startup; unknown providers
// resolve to nil so the aggregator can skip the source without aborting
// the run.
type Registry struct {
	cfg     *config.Config
	timeout time.Duration
}

func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{cfg: cfg, timeout: cfg.HTTPTimeout}
}

// Create returns the adapter for the source's api_provider, or nil when
// the provider is not registered.
func (r *Registry) Create(source *model.NewsSource) Provider {
	switch source.APIProvider {
	case model.ProviderNewsAPI:
		return NewNewsAPI(source, r.cfg.NewsAPIKey, r.cfg.NewsAPIBaseURL, r.timeout)
	case model.ProviderGuardian:
		return NewGuardian(source, r.cfg.GuardianAPIKey, r.cfg.GuardianBaseURL, r.timeout)
	case model.ProviderNYTimes:
		return NewNYTimes(source, r.cfg.NYTimesAPIKey, r.cfg.NYTimesBaseURL, r.timeout)
	default:
		log.Printf("[ERROR] Unknown news provider: %s (source=%s)", source.APIProvider, source.Name)
		return nil
	}
}

// Providers lists the registered provider identifiers.
func (r *Registry) Providers() []string {
	return []string{model.ProviderNewsAPI, model.ProviderGuardian, model.ProviderNYTimes}
}

// Supported reports whether a provider identifier has a registered adapter.
func (r *Registry) Supported(provider string) bool {
	switch provider {
	case model.ProviderNewsAPI, model.ProviderGuardian, model.ProviderNYTimes:
		return true
	}
	return false
}
