package boycott

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mizanlabs/mizan/pkg/config"
	"github.com/mizanlabs/mizan/pkg/logger"
)

// Client queries a public boycott registry by company name.
//
// The lookup is strictly fail-open: a network error, timeout, non-2xx
// status or malformed body all mean "not boycotted". Absence of
// information is never treated as a violation, and a slow registry must
// not stall the whole analysis.
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new boycott registry client. The configured
// timeout bounds every lookup.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	timeout := cfg.Boycott.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
		baseURL:    cfg.Boycott.BaseURL,
	}
}

// IsBoycotted reports whether the registry lists the company. A
// non-empty result array means listed.
func (c *Client) IsBoycotted(ctx context.Context, companyName string) bool {
	if companyName == "" {
		return false
	}

	fullURL := fmt.Sprintf("%s?q=%s", c.baseURL, url.QueryEscape(companyName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("company", companyName).Debug("Boycott lookup failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}

	var entries []interface{}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return false
	}

	listed := len(entries) > 0
	if listed {
		c.logger.WithField("company", companyName).Info("Company found on boycott registry")
	}

	return listed
}
