package fmp

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mizanlabs/mizan/internal/analysis"
	"github.com/mizanlabs/mizan/pkg/redis"
)

// PricePoint is a single chart point. MA50 is null until fifty closes
// are available.
type PricePoint struct {
	Date  string   `json:"date"`
	Close float64  `json:"close"`
	MA50  *float64 `json:"ma50"`
}

// periodDays maps a chart period label to its lookback in calendar days
var periodDays = map[string]int{
	"3mo": 90,
	"6mo": 180,
	"1y":  365,
	"2y":  730,
	"5y":  1825,
}

// FetchDailyCloses fetches the daily close series for a symbol within a
// date range, in ascending date order.
func (c *Client) FetchDailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]analysis.ClosePrice, error) {
	symbol := strings.ToUpper(ticker)

	records, err := c.fetchHistorical(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	prices := make([]analysis.ClosePrice, 0, len(records))
	for _, rec := range records {
		dateStr, _ := rec["date"].(string)
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		closePx := numField(rec, "close")
		if closePx == 0 {
			closePx = numField(rec, "adjClose")
		}

		prices = append(prices, analysis.ClosePrice{Date: date, Close: closePx})
	}

	sort.Slice(prices, func(i, j int) bool {
		return prices[i].Date.Before(prices[j].Date)
	})

	return prices, nil
}

// FetchPriceHistory returns the chart series for a period label with a
// 50-day moving average overlay. Unknown periods default to one year.
// Fetch failures yield an empty series, never an error: charts are a
// non-essential surface.
func (c *Client) FetchPriceHistory(ctx context.Context, ticker, period string) []PricePoint {
	symbol := strings.ToUpper(ticker)

	days, ok := periodDays[period]
	if !ok {
		days = periodDays["1y"]
	}

	if c.cache != nil {
		var cached []PricePoint
		found, err := c.cache.Get(ctx, redis.PriceHistoryKey(symbol, days), &cached)
		if err == nil && found {
			return cached
		}
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)

	prices, err := c.FetchDailyCloses(ctx, symbol, from, to)
	if err != nil {
		c.logger.WithError(err).WithField("ticker", symbol).Warn("Price history fetch failed")
		return []PricePoint{}
	}

	points := withMovingAverage(prices)

	if c.cache != nil {
		_ = c.cache.Set(ctx, redis.PriceHistoryKey(symbol, days), points, c.cacheTTL)
	}

	return points
}

// withMovingAverage builds chart points with a 50-day simple moving
// average starting at the fiftieth close
func withMovingAverage(prices []analysis.ClosePrice) []PricePoint {
	const window = 50

	points := make([]PricePoint, len(prices))
	var runningSum float64

	for i, p := range prices {
		runningSum += p.Close
		if i >= window {
			runningSum -= prices[i-window].Close
		}

		points[i] = PricePoint{
			Date:  p.Date.Format("2006-01-02"),
			Close: p.Close,
		}

		if i >= window-1 {
			ma := runningSum / window
			points[i].MA50 = &ma
		}
	}

	return points
}

// fetchHistorical calls the EOD endpoint, which answers either with a
// bare array or with a {"historical": [...]} wrapper
func (c *Client) fetchHistorical(ctx context.Context, symbol string, from, to time.Time) ([]map[string]interface{}, error) {
	params := url.Values{
		"symbol": {symbol},
		"from":   {from.Format("2006-01-02")},
		"to":     {to.Format("2006-01-02")},
	}

	var payload interface{}
	if err := c.get(ctx, "/stable/historical-price-eod/full", params, &payload); err != nil {
		return nil, err
	}

	return historicalRecords(payload), nil
}

func historicalRecords(payload interface{}) []map[string]interface{} {
	var items []interface{}
	switch v := payload.(type) {
	case []interface{}:
		items = v
	case map[string]interface{}:
		items, _ = v["historical"].([]interface{})
	}

	records := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(map[string]interface{}); ok {
			records = append(records, rec)
		}
	}
	return records
}

func numField(rec map[string]interface{}, key string) float64 {
	if v, ok := rec[key].(float64); ok {
		return v
	}
	return 0
}
