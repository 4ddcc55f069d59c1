package fmp

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mizanlabs/mizan/internal/analysis"
	"github.com/mizanlabs/mizan/pkg/redis"
)

// momentumWindowDays is the trailing lookback for the momentum series
const momentumWindowDays = 90

// FetchFundamentals retrieves the raw records required to normalize one
// company: profile, the two most recent annual income statements, the
// latest annual balance sheet and cash-flow statement, plus the trailing
// 90-day close series for momentum. The statement fetches run
// concurrently; a failed price fetch degrades to an empty series rather
// than failing the bundle.
func (c *Client) FetchFundamentals(ctx context.Context, ticker string) (analysis.RawFundamentals, error) {
	symbol := strings.ToUpper(ticker)

	raw := analysis.RawFundamentals{Symbol: symbol}

	if c.cache != nil {
		found, err := c.cache.Get(ctx, redis.FundamentalsKey(symbol), &raw)
		if err == nil && found {
			c.logger.WithField("ticker", symbol).Debug("Fundamentals cache hit")
			return raw, nil
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	fetch := func(run func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}

	fetch(func() error {
		records, err := c.getRecords(ctx, "/stable/profile", url.Values{"symbol": {symbol}})
		if err != nil {
			return err
		}
		if len(records) > 0 {
			raw.Profile = records[0]
		} else {
			raw.Profile = map[string]interface{}{}
		}
		return nil
	})

	fetch(func() error {
		records, err := c.getRecords(ctx, "/stable/income-statement", url.Values{
			"symbol": {symbol},
			"period": {"annual"},
			"limit":  {"2"},
		})
		if err != nil {
			return err
		}
		raw.Income = records
		return nil
	})

	fetch(func() error {
		records, err := c.getRecords(ctx, "/stable/balance-sheet-statement", url.Values{
			"symbol": {symbol},
			"period": {"annual"},
			"limit":  {"1"},
		})
		if err != nil {
			return err
		}
		raw.Balance = firstOrEmpty(records)
		return nil
	})

	fetch(func() error {
		records, err := c.getRecords(ctx, "/stable/cash-flow-statement", url.Values{
			"symbol": {symbol},
			"period": {"annual"},
			"limit":  {"1"},
		})
		if err != nil {
			return err
		}
		raw.CashFlow = firstOrEmpty(records)
		return nil
	})

	fetch(func() error {
		to := time.Now()
		from := to.AddDate(0, 0, -momentumWindowDays)
		prices, err := c.FetchDailyCloses(ctx, symbol, from, to)
		if err != nil {
			// Momentum is a non-essential signal; degrade to an empty series
			c.logger.WithError(err).WithField("ticker", symbol).Warn("Momentum price fetch failed")
			return nil
		}
		raw.Prices = prices
		return nil
	})

	wg.Wait()

	if firstErr != nil {
		return analysis.RawFundamentals{}, firstErr
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, redis.FundamentalsKey(symbol), raw, c.cacheTTL)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":         symbol,
		"income_periods": len(raw.Income),
		"price_points":   len(raw.Prices),
	}).Debug("Fetched fundamentals")

	return raw, nil
}

func firstOrEmpty(records []map[string]interface{}) map[string]interface{} {
	if len(records) > 0 {
		return records[0]
	}
	return map[string]interface{}{}
}
