package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"news-aggregator/metrics"
)

// apiClient is the shared fetch-with-timeout helper all adapters compose.
type apiClient struct {
	provider string
	baseURL  string
	client   *http.Client
}

func newAPIClient(provider, baseURL string, timeout time.Duration) *apiClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &apiClient{
		provider: provider,
		baseURL:  strings.TrimSuffix(baseURL, "/") + "/",
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *apiClient) configured() bool {
	return c.baseURL != "/"
}

// getJSON performs a GET against baseURL+endpoint and decodes the JSON
// body into out. Non-2xx statuses are errors.
func (c *apiClient) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := c.baseURL + strings.TrimPrefix(endpoint, "/")
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(c.provider, "error").Inc()
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(c.provider, "error").Inc()
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequests.WithLabelValues(c.provider, "error").Inc()
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.ProviderRequests.WithLabelValues(c.provider, "error").Inc()
		return err
	}

	metrics.ProviderRequests.WithLabelValues(c.provider, "success").Inc()
	return nil
}
