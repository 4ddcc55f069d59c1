package analysis

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when the upstream has no record for a ticker.
// All other missing fields degrade to defaults instead of failing.
var ErrNotFound = errors.New("no company data")

// Ratio is a nullable valuation ratio. Valid is false when the ratio is
// not computable (e.g. P/E with non-positive earnings). A missing ratio
// is a distinct state from zero: strategy checks substitute a worst-case
// sentinel at evaluation time, never at normalization time.
type Ratio struct {
	Value float64
	Valid bool
}

// SomeRatio returns a computable ratio
func SomeRatio(v float64) Ratio {
	return Ratio{Value: v, Valid: true}
}

// MarshalJSON encodes the ratio as a number, or null when not computable
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON decodes a number or null
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio{}
		return nil
	}
	if err := json.Unmarshal(data, &r.Value); err != nil {
		return err
	}
	r.Valid = true
	return nil
}

// ClosePrice is a single daily closing price
type ClosePrice struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// RawFundamentals bundles the raw upstream records for one ticker.
// Field values are untrusted: any entry may be missing, null, a string,
// or a number. Income holds up to two annual periods, most recent first.
// Prices is the trailing ~90 day daily close series in ascending date
// order; it may be empty when the series fetch failed.
type RawFundamentals struct {
	Symbol   string
	Profile  map[string]interface{}
	Income   []map[string]interface{}
	Balance  map[string]interface{}
	CashFlow map[string]interface{}
	Prices   []ClosePrice
}

// Stock is the normalized fundamentals record for one company.
// Every non-Ratio numeric field is a finite number; MarketCap and
// TotalAssets are floored at 1 because they are used as denominators.
type Stock struct {
	Ticker      string `json:"ticker"`
	Name        string `json:"name"`
	Industry    string `json:"industry"`
	Sector      string `json:"sector"`
	Description string `json:"description"`
	Currency    string `json:"currency"`

	CurrentPrice float64 `json:"currentPrice"`
	MarketCap    float64 `json:"marketCap"`

	PERatio  Ratio `json:"peRatio"`
	PBRatio  Ratio `json:"pbRatio"`
	PEGRatio Ratio `json:"pegRatio"`
	EPS      Ratio `json:"eps"`

	ROE              float64 `json:"roe"`
	OperatingMargin  float64 `json:"operatingMargin"`
	FCFYield         float64 `json:"fcfYield"`
	CurrentRatio     float64 `json:"currentRatio"`
	DebtToEquity     float64 `json:"debtToEquity"`
	NetDebtEbitda    float64 `json:"netDebtEbitda"`
	InterestCoverage float64 `json:"interestCoverage"`
	RevenueGrowth    float64 `json:"revenueGrowth"`
	RevenuePerShare  float64 `json:"revenuePerShare"`
	Momentum3M       float64 `json:"momentum3m"`

	TotalDebt      float64 `json:"totalDebt"`
	TotalAssets    float64 `json:"totalAssets"`
	InterestIncome float64 `json:"interestIncome"`
	IlliquidAssets float64 `json:"illiquidAssets"`
	CurrentAssets  float64 `json:"currentAssets"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

// ShariahResult holds the outcome of the six compliance checks.
// Failures is ordered by check evaluation order: activity, boycott,
// interest, debt, real assets, liquidity.
type ShariahResult struct {
	InterestIncomeRatio float64  `json:"interestIncomeRatio"`
	DebtRatio           float64  `json:"debtRatio"`
	IlliquidAssetsRatio float64  `json:"illiquidAssetsRatio"`
	IsLiquidOk          bool     `json:"isLiquidOk"`
	IsActivityCompliant bool     `json:"isActivityCompliant"`
	ActivityIssue       string   `json:"activityIssue"`
	IsBoycotted         bool     `json:"isBoycotted"`
	Failures            []string `json:"failures"`
	IsCompliant         bool     `json:"isCompliant"`
}

// StrategyCheck is a single evaluated strategy criterion
type StrategyCheck struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Target string `json:"target"`
	Passed bool   `json:"passed"`
}

// StrategyResult holds the outcome of one strategy evaluation.
// Score = round(100 * PassedCount / TotalCount).
type StrategyResult struct {
	StrategyName string          `json:"strategyName"`
	Checks       []StrategyCheck `json:"checks"`
	Score        int             `json:"score"`
	PassedCount  int             `json:"passedCount"`
	TotalCount   int             `json:"totalCount"`
}

// ExitPlan holds suggested take-profit price targets
type ExitPlan struct {
	TP1 float64 `json:"tp1"`
	TP2 float64 `json:"tp2"`
}
