package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/mizanlabs/mizan/pkg/config"
	"github.com/mizanlabs/mizan/pkg/httputil"
	"github.com/mizanlabs/mizan/pkg/logger"
	"github.com/mizanlabs/mizan/pkg/redis"
)

// Client handles communication with the Financial Modeling Prep API.
// Responses are cached briefly so repeated analyses of the same ticker
// do not burn through the free-tier quota.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cache      *redis.Cache
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
	cacheTTL   time.Duration
}

// NewClient creates a new FMP API client
func NewClient(cfg *config.Config, httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	// Local limiter smooths bursts even when Redis is disabled
	rps := rate.Limit(float64(cfg.FMP.RateLimit) / 60.0)
	if cfg.FMP.RateLimit <= 0 {
		rps = rate.Inf
	}

	return &Client{
		httpClient: httpClient,
		logger:     log,
		cache:      cache,
		limiter:    rate.NewLimiter(rps, 5),
		apiKey:     cfg.FMP.APIKey,
		baseURL:    cfg.FMP.BaseURL,
		cacheTTL:   cfg.FMP.CacheTTL,
	}
}

// get performs a GET request against an FMP endpoint and decodes the
// JSON body. FMP reports errors as 200 responses carrying an
// "Error Message" object, so both shapes are handled here.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}

	query := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	query.Set("apikey", c.apiKey)

	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, query.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("FMP %d %s for %s", resp.StatusCode, resp.Status, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body failed: %w", err)
	}

	if msg := errorMessage(body); msg != "" {
		return fmt.Errorf("FMP error: %s", msg)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("parse response failed: %w", err)
	}

	return nil
}

// getRecords fetches an endpoint that returns an array of objects
func (c *Client) getRecords(ctx context.Context, endpoint string, params url.Values) ([]map[string]interface{}, error) {
	var records []map[string]interface{}
	if err := c.get(ctx, endpoint, params, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// errorMessage extracts FMP's in-band error payload, if present
func errorMessage(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg, ok := payload["Error Message"].(string); ok {
		return msg
	}
	return ""
}
