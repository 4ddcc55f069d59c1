package fmp

import (
	"context"
	"net/url"

	"github.com/mizanlabs/mizan/pkg/redis"
)

// SearchResult is one symbol search match
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
}

// maxSearchResults caps how many matches the search surface returns
const maxSearchResults = 10

// freeExchanges lists the US exchanges available on the FMP free tier;
// results from other venues would 402 on every follow-up call
var freeExchanges = map[string]bool{
	"NASDAQ": true,
	"NYSE":   true,
	"AMEX":   true,
}

// SearchSymbols searches companies by name, keeping only symbols the
// free tier can actually analyze
func (c *Client) SearchSymbols(ctx context.Context, query string) ([]SearchResult, error) {
	if query == "" {
		return []SearchResult{}, nil
	}

	if c.cache != nil {
		var cached []SearchResult
		found, err := c.cache.Get(ctx, redis.SearchKey(query), &cached)
		if err == nil && found {
			return cached, nil
		}
	}

	records, err := c.getRecords(ctx, "/stable/search-name", url.Values{
		"query": {query},
		"limit": {"30"},
	})
	if err != nil {
		return nil, err
	}

	results := filterSearchRecords(records)

	if c.cache != nil {
		_ = c.cache.Set(ctx, redis.SearchKey(query), results, c.cacheTTL)
	}

	c.logger.WithFields(map[string]interface{}{
		"query": query,
		"count": len(results),
	}).Debug("Symbol search completed")

	return results, nil
}

func filterSearchRecords(records []map[string]interface{}) []SearchResult {
	results := make([]SearchResult, 0, maxSearchResults)

	for _, rec := range records {
		symbol, _ := rec["symbol"].(string)
		if symbol == "" {
			continue
		}

		exchange, _ := rec["exchange"].(string)
		if !freeExchanges[exchange] {
			continue
		}

		name, _ := rec["name"].(string)
		if name == "" {
			name = symbol
		}

		currency, _ := rec["currency"].(string)
		if currency == "" {
			currency = "USD"
		}

		results = append(results, SearchResult{
			Symbol:   symbol,
			Name:     name,
			Exchange: exchange,
			Currency: currency,
		})

		if len(results) >= maxSearchResults {
			break
		}
	}

	return results
}
