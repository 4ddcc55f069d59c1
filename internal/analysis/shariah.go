package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/mizanlabs/mizan/pkg/logger"
)

// BoycottChecker reports whether a company appears on a boycott registry.
// Implementations must be fail-open: lookup failures mean "not boycotted".
type BoycottChecker interface {
	IsBoycotted(ctx context.Context, companyName string) bool
}

// ShariahConfig defines the AAOIFI quantitative thresholds
type ShariahConfig struct {
	MaxDebtRatio           float64 // total debt / total assets, percent
	MaxInterestIncomeRatio float64 // interest income / revenue, percent
	MinRealAssetsRatio     float64 // illiquid assets / total assets, percent
}

// DefaultShariahConfig holds the standard AAOIFI thresholds
var DefaultShariahConfig = ShariahConfig{
	MaxDebtRatio:           33.0,
	MaxInterestIncomeRatio: 5.0,
	MinRealAssetsRatio:     20.0,
}

// sectorBlacklist lists prohibited industries and sectors. Ordered:
// only the first match is reported as the activity issue.
var sectorBlacklist = []string{
	"banks",
	"insurance",
	"capital markets",
	"credit services",
	"mortgage",
	"beverages - wineries & distilleries",
	"beverages - brewers",
	"tobacco",
	"gambling",
	"casinos",
	"defense",
	"adult entertainment",
}

// keywordBlacklist lists prohibited whole words in business descriptions
var keywordBlacklist = []string{
	"alcohol",
	"liquor",
	"wine",
	"beer",
	"brewery",
	"pork",
	"gambling",
	"casino",
	"betting",
	"tobacco",
	"adult entertainment",
	"pornography",
}

// ShariahScreener applies the six AAOIFI compliance checks
type ShariahScreener struct {
	config  ShariahConfig
	boycott BoycottChecker
	logger  *logger.Logger
}

// NewShariahScreener creates a new screener. The boycott checker may be
// nil, in which case the boycott check always passes.
func NewShariahScreener(config ShariahConfig, boycott BoycottChecker, log *logger.Logger) *ShariahScreener {
	return &ShariahScreener{
		config:  config,
		boycott: boycott,
		logger:  log,
	}
}

// Screen runs all six checks in fixed order. Every check always runs so
// the full failure list is available for display; a compliant stock has
// an empty failure list.
func (s *ShariahScreener) Screen(ctx context.Context, stock *Stock) ShariahResult {
	failures := []string{}

	// 1. Business activity
	activityOk, activityIssue := s.checkBusinessActivity(stock)
	if !activityOk {
		failures = append(failures, "Activity")
	}

	// 2. Boycott list
	isBoycotted := false
	if s.boycott != nil {
		isBoycotted = s.boycott.IsBoycotted(ctx, stock.Name)
	}
	if isBoycotted {
		failures = append(failures, "Boycott Listed")
	}

	// 3. Interest income ratio
	interestIncomeRatio := 0.0
	if stock.TotalRevenue > 0 {
		interestIncomeRatio = stock.InterestIncome / stock.TotalRevenue * 100
	}
	if interestIncomeRatio >= s.config.MaxInterestIncomeRatio {
		failures = append(failures, fmt.Sprintf("Interest > %g%%", s.config.MaxInterestIncomeRatio))
	}

	// 4. Debt ratio
	debtRatio := 0.0
	if stock.TotalAssets > 0 {
		debtRatio = stock.TotalDebt / stock.TotalAssets * 100
	}
	if debtRatio >= s.config.MaxDebtRatio {
		failures = append(failures, fmt.Sprintf("Debt > %g%%", s.config.MaxDebtRatio))
	}

	// 5. Real assets ratio: the company must be asset-backed
	illiquidAssetsRatio := 0.0
	if stock.TotalAssets > 0 {
		illiquidAssetsRatio = stock.IlliquidAssets / stock.TotalAssets * 100
	}
	if illiquidAssetsRatio <= s.config.MinRealAssetsRatio {
		failures = append(failures, fmt.Sprintf("Real Assets < %g%%", s.config.MinRealAssetsRatio))
	}

	// 6. Liquidity: idle cash in excess of the market valuation
	isLiquidOk := stock.CurrentAssets < stock.MarketCap
	if !isLiquidOk {
		failures = append(failures, "Cash > Cap")
	}

	result := ShariahResult{
		InterestIncomeRatio: interestIncomeRatio,
		DebtRatio:           debtRatio,
		IlliquidAssetsRatio: illiquidAssetsRatio,
		IsLiquidOk:          isLiquidOk,
		IsActivityCompliant: activityOk,
		ActivityIssue:       activityIssue,
		IsBoycotted:         isBoycotted,
		Failures:            failures,
		IsCompliant:         len(failures) == 0,
	}

	if s.logger != nil {
		s.logger.WithFields(map[string]interface{}{
			"ticker":    stock.Ticker,
			"compliant": result.IsCompliant,
			"failures":  failures,
		}).Debug("Shariah screening completed")
	}

	return result
}

// checkBusinessActivity matches the industry/sector against the sector
// blacklist, then the description against the keyword blacklist.
func (s *ShariahScreener) checkBusinessActivity(stock *Stock) (bool, string) {
	industry := strings.ToLower(stock.Industry)
	sector := strings.ToLower(stock.Sector)
	desc := strings.ToLower(stock.Description)

	for _, blacklisted := range sectorBlacklist {
		if strings.Contains(industry, blacklisted) || strings.Contains(sector, blacklisted) {
			return false, "Sector: " + blacklisted
		}
	}

	// Whole-word match via space padding
	padded := " " + desc + " "
	for _, keyword := range keywordBlacklist {
		if strings.Contains(padded, " "+keyword+" ") {
			return false, "Keyword: " + keyword
		}
	}

	return true, "OK"
}
