package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mizanlabs/mizan/pkg/logger"
)

// Normalizer converts raw upstream records into a Stock
type Normalizer struct {
	logger *logger.Logger
}

// NewNormalizer creates a new normalizer
func NewNormalizer(log *logger.Logger) *Normalizer {
	return &Normalizer{logger: log}
}

// Normalize builds a complete Stock from the raw upstream records.
// Missing or malformed fields degrade to safe defaults; the only fatal
// condition is a profile without a company name, which returns ErrNotFound.
func (n *Normalizer) Normalize(raw RawFundamentals) (*Stock, error) {
	symbol := strings.ToUpper(raw.Symbol)

	profile := raw.Profile
	income := firstRecord(raw.Income)
	balance := raw.Balance
	cashflow := raw.CashFlow

	name := getString(profile, "companyName", "")
	if name == "" {
		return nil, fmt.Errorf("%w for %s", ErrNotFound, symbol)
	}

	marketCap := safe(coalesce(profile, "marketCap", "mktCap"), 1)
	if marketCap <= 0 {
		marketCap = 1
	}

	price := safe(profile["price"], 0)
	sharesOut := 0.0
	if price > 0 {
		sharesOut = marketCap / price
	}

	// Income statement
	totalRevenue := safe(income["revenue"], 0)
	netIncome := safe(income["netIncome"], 0)
	operatingIncome := safe(income["operatingIncome"], 0)
	ebitda := safe(income["ebitda"], 0)
	interestExpense := math.Abs(safe(income["interestExpense"], 0))
	interestIncome := safe(income["interestIncome"], 0)
	epsFromIncome := safe(coalesce(income, "epsdiluted", "epsDiluted", "eps"), 0)

	// Balance sheet
	totalAssets := safe(balance["totalAssets"], 1)
	if totalAssets <= 0 {
		totalAssets = 1
	}
	totalDebt := safe(balance["totalDebt"], 0)
	cash := safe(balance["cashAndCashEquivalents"], 0)
	totalEquity := safe(balance["totalStockholdersEquity"], 0)
	totalCurrentAssets := safe(balance["totalCurrentAssets"], 0)
	totalCurrentLiabilities := safe(balance["totalCurrentLiabilities"], 0)

	// Illiquid assets: detailed breakdown first; some filings only report
	// the current/non-current split, so fall back to the difference
	ppe := safe(balance["propertyPlantEquipmentNet"], 0)
	goodwill := safe(balance["goodwill"], 0)
	intangibles := safe(balance["intangibleAssets"], 0)
	inventory := safe(balance["inventory"], 0)
	illiquidAssets := ppe + goodwill + intangibles + inventory
	if illiquidAssets == 0 && totalCurrentAssets > 0 {
		illiquidAssets = totalAssets - totalCurrentAssets
	}

	// Cash flow
	fcf := safe(cashflow["freeCashFlow"], 0)

	// EPS: profile first, then income statement, then net income per share
	eps := safe(profile["eps"], 0)
	if eps == 0 {
		eps = epsFromIncome
	}
	if eps == 0 && sharesOut > 0 {
		eps = netIncome / sharesOut
	}

	var peRatio Ratio
	if eps > 0 {
		peRatio = SomeRatio(price / eps)
	}

	bvps := 0.0
	if sharesOut > 0 {
		bvps = totalEquity / sharesOut
	}
	var pbRatio Ratio
	if bvps > 0 {
		pbRatio = SomeRatio(price / bvps)
	}

	roe := 0.0
	if totalEquity > 0 {
		roe = netIncome / totalEquity * 100
	}
	operatingMargin := 0.0
	if totalRevenue > 0 {
		operatingMargin = operatingIncome / totalRevenue * 100
	}
	fcfYield := fcf / marketCap * 100
	currentRatio := 0.0
	if totalCurrentLiabilities > 0 {
		currentRatio = totalCurrentAssets / totalCurrentLiabilities
	}
	debtToEquity := 0.0
	if totalEquity > 0 {
		debtToEquity = totalDebt / totalEquity * 100
	}
	netDebtEbitda := 0.0
	if ebitda > 0 {
		netDebtEbitda = (totalDebt - cash) / ebitda
	}
	// No interest expense means nothing to cover; report ample coverage
	interestCoverage := 100.0
	if interestExpense > 0 {
		interestCoverage = operatingIncome / interestExpense
	}

	// Revenue growth YoY from the two most recent annual periods
	revenueGrowth := 0.0
	if len(raw.Income) >= 2 {
		revCurr := safe(raw.Income[0]["revenue"], 0)
		revPrev := safe(raw.Income[1]["revenue"], 0)
		if revPrev > 0 {
			revenueGrowth = (revCurr - revPrev) / revPrev * 100
		}
	}

	revenuePerShare := 0.0
	if sharesOut > 0 {
		revenuePerShare = totalRevenue / sharesOut
	}

	var pegRatio Ratio
	if peRatio.Valid && revenueGrowth > 0 {
		pegRatio = SomeRatio(peRatio.Value / revenueGrowth)
	}

	stock := &Stock{
		Ticker:      symbol,
		Name:        name,
		Industry:    getString(profile, "industry", "Unknown"),
		Sector:      getString(profile, "sector", "Unknown"),
		Description: getString(profile, "description", ""),
		Currency:    getString(profile, "currency", "USD"),

		CurrentPrice: price,
		MarketCap:    marketCap,

		PERatio:  peRatio,
		PBRatio:  pbRatio,
		PEGRatio: pegRatio,
		EPS:      Ratio{Value: eps, Valid: eps != 0},

		ROE:              roe,
		OperatingMargin:  operatingMargin,
		FCFYield:         fcfYield,
		CurrentRatio:     currentRatio,
		DebtToEquity:     debtToEquity,
		NetDebtEbitda:    netDebtEbitda,
		InterestCoverage: interestCoverage,
		RevenueGrowth:    revenueGrowth,
		RevenuePerShare:  revenuePerShare,
		Momentum3M:       momentum(raw.Prices),

		TotalDebt:      totalDebt,
		TotalAssets:    totalAssets,
		InterestIncome: interestIncome,
		IlliquidAssets: illiquidAssets,
		CurrentAssets:  totalCurrentAssets,
		TotalRevenue:   totalRevenue,
	}

	if n.logger != nil {
		n.logger.WithFields(map[string]interface{}{
			"ticker":     symbol,
			"market_cap": stock.MarketCap,
			"revenue":    stock.TotalRevenue,
		}).Debug("Normalized fundamentals")
	}

	return stock, nil
}

// momentum returns the percentage price change over an ascending daily
// close series. Fewer than two points, or a non-positive starting close,
// yield 0 rather than an error.
func momentum(prices []ClosePrice) float64 {
	if len(prices) < 2 {
		return 0
	}

	start := prices[0].Close
	end := prices[len(prices)-1].Close
	if start <= 0 {
		return 0
	}

	return (end - start) / start * 100
}

// safe coerces an untrusted upstream value into a finite float64.
// Null, missing, and non-numeric values return the fallback.
func safe(value interface{}, fallback float64) float64 {
	switch v := value.(type) {
	case nil:
		return fallback
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fallback
		}
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return fallback
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fallback
		}
		return f
	default:
		return fallback
	}
}

// coalesce returns the first non-nil value among the given keys
func coalesce(m map[string]interface{}, keys ...string) interface{} {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func getString(m map[string]interface{}, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func firstRecord(records []map[string]interface{}) map[string]interface{} {
	if len(records) > 0 && records[0] != nil {
		return records[0]
	}
	return map[string]interface{}{}
}
