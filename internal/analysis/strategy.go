package analysis

import (
	"fmt"
	"math"

	"github.com/mizanlabs/mizan/pkg/logger"
)

// Strategy identifies one of the supported check sets
type Strategy string

const (
	StrategyMizan  Strategy = "Mizan"
	StrategyGraham Strategy = "Graham"
	StrategyLynch  Strategy = "Lynch"
)

// ParseStrategy maps a strategy name to a Strategy. Unrecognized names
// default to Mizan.
func ParseStrategy(name string) Strategy {
	switch name {
	case string(StrategyGraham):
		return StrategyGraham
	case string(StrategyLynch):
		return StrategyLynch
	default:
		return StrategyMizan
	}
}

// Worst-case value substituted when a nullable ratio cannot be computed.
// The displayed value stays "N/A"; the sentinel only drives the pass/fail
// comparison against upper-bound targets.
const sentinelRatio = 999.0

// mizanConfig defines the Mizan (quality growth) thresholds
type mizanConfig struct {
	MaxPE           float64
	MinMargin       float64
	MaxNetDebtEbitda float64
	FCFYieldGrowth  float64 // threshold when revenue growth > 10%
	FCFYieldMature  float64
}

// grahamConfig defines the Graham (modern value) thresholds
type grahamConfig struct {
	MaxPE               float64
	MinCurrentRatio     float64
	MaxDebtEquity       float64
	MinInterestCoverage float64
	MinROE              float64
}

// lynchConfig defines the Lynch (growth at reasonable price) thresholds
type lynchConfig struct {
	MaxPEG        float64
	MinGrowth     float64
	MaxDebtEquity float64
	MaxPE         float64
}

var (
	mizanThresholds = mizanConfig{
		MaxPE:            25.0,
		MinMargin:        15.0,
		MaxNetDebtEbitda: 3.0,
		FCFYieldGrowth:   2.5,
		FCFYieldMature:   5.0,
	}

	grahamThresholds = grahamConfig{
		MaxPE:               15.0,
		MinCurrentRatio:     1.5,
		MaxDebtEquity:       50.0,
		MinInterestCoverage: 3.0,
		MinROE:              8.0,
	}

	lynchThresholds = lynchConfig{
		MaxPEG:        1.0,
		MinGrowth:     15.0,
		MaxDebtEquity: 80.0,
		MaxPE:         25.0,
	}
)

// StrategyScorer evaluates a stock against one strategy's check set
type StrategyScorer struct {
	logger *logger.Logger
}

// NewStrategyScorer creates a new scorer
func NewStrategyScorer(log *logger.Logger) *StrategyScorer {
	return &StrategyScorer{logger: log}
}

// Score evaluates every check of the selected strategy. Checks never
// short-circuit; each contributes equally to the 0-100 score.
func (s *StrategyScorer) Score(stock *Stock, strategy Strategy) StrategyResult {
	var result StrategyResult
	switch strategy {
	case StrategyGraham:
		result = evaluateGraham(stock)
	case StrategyLynch:
		result = evaluateLynch(stock)
	default:
		result = evaluateMizan(stock)
	}

	if s.logger != nil {
		s.logger.WithFields(map[string]interface{}{
			"ticker":   stock.Ticker,
			"strategy": result.StrategyName,
			"score":    result.Score,
			"passed":   result.PassedCount,
		}).Debug("Strategy evaluated")
	}

	return result
}

func evaluateMizan(stock *Stock) StrategyResult {
	cfg := mizanThresholds
	checks := make([]StrategyCheck, 0, 4)

	// Growth companies get a lower free-cash-flow bar than mature ones
	isGrowth := stock.RevenueGrowth > 10
	targetFcf := cfg.FCFYieldMature
	phase := "Mature"
	if isGrowth {
		targetFcf = cfg.FCFYieldGrowth
		phase = "Growth"
	}
	checks = append(checks, StrategyCheck{
		Name:   "FCF Yield",
		Value:  fmtPct(stock.FCFYield),
		Target: fmt.Sprintf("> %g%% (%s)", targetFcf, phase),
		Passed: stock.FCFYield > targetFcf,
	})

	pe, peDisplay := ratioOrSentinel(stock.PERatio)
	checks = append(checks, StrategyCheck{
		Name:   "P/E",
		Value:  peDisplay,
		Target: fmt.Sprintf("< %g", cfg.MaxPE),
		Passed: pe < cfg.MaxPE,
	})

	checks = append(checks, StrategyCheck{
		Name:   "Op. Margin",
		Value:  fmtPct(stock.OperatingMargin),
		Target: fmt.Sprintf("> %g%%", cfg.MinMargin),
		Passed: stock.OperatingMargin > cfg.MinMargin,
	})

	checks = append(checks, StrategyCheck{
		Name:   "Net Debt/EBITDA",
		Value:  fmt.Sprintf("%.2fx", stock.NetDebtEbitda),
		Target: fmt.Sprintf("< %gx", cfg.MaxNetDebtEbitda),
		Passed: stock.NetDebtEbitda < cfg.MaxNetDebtEbitda,
	})

	return buildResult(StrategyMizan, checks)
}

func evaluateGraham(stock *Stock) StrategyResult {
	cfg := grahamThresholds
	checks := make([]StrategyCheck, 0, 5)

	pe, peDisplay := ratioOrSentinel(stock.PERatio)
	checks = append(checks, StrategyCheck{
		Name:   "P/E",
		Value:  peDisplay,
		Target: fmt.Sprintf("< %g", cfg.MaxPE),
		Passed: pe < cfg.MaxPE,
	})

	checks = append(checks, StrategyCheck{
		Name:   "Current Ratio",
		Value:  fmt.Sprintf("%.2f", stock.CurrentRatio),
		Target: fmt.Sprintf("> %g", cfg.MinCurrentRatio),
		Passed: stock.CurrentRatio > cfg.MinCurrentRatio,
	})

	de := debtEquityOrSentinel(stock.DebtToEquity)
	checks = append(checks, StrategyCheck{
		Name:   "Debt/Equity",
		Value:  fmt.Sprintf("%.0f%%", de),
		Target: fmt.Sprintf("< %g%%", cfg.MaxDebtEquity),
		Passed: de < cfg.MaxDebtEquity,
	})

	checks = append(checks, StrategyCheck{
		Name:   "Interest Coverage",
		Value:  fmt.Sprintf("%.1fx", stock.InterestCoverage),
		Target: fmt.Sprintf("> %gx", cfg.MinInterestCoverage),
		Passed: stock.InterestCoverage > cfg.MinInterestCoverage,
	})

	checks = append(checks, StrategyCheck{
		Name:   "ROE",
		Value:  fmtPct(stock.ROE),
		Target: fmt.Sprintf("> %g%%", cfg.MinROE),
		Passed: stock.ROE > cfg.MinROE,
	})

	return buildResult(StrategyGraham, checks)
}

func evaluateLynch(stock *Stock) StrategyResult {
	cfg := lynchThresholds
	checks := make([]StrategyCheck, 0, 4)

	peg := sentinelRatio
	pegDisplay := "N/A"
	if stock.PEGRatio.Valid {
		peg = stock.PEGRatio.Value
		pegDisplay = fmt.Sprintf("%.2f", peg)
	}
	checks = append(checks, StrategyCheck{
		Name:   "PEG",
		Value:  pegDisplay,
		Target: fmt.Sprintf("< %g", cfg.MaxPEG),
		Passed: peg < cfg.MaxPEG,
	})

	checks = append(checks, StrategyCheck{
		Name:   "Revenue Growth",
		Value:  fmtPct(stock.RevenueGrowth),
		Target: fmt.Sprintf("> %g%%", cfg.MinGrowth),
		Passed: stock.RevenueGrowth > cfg.MinGrowth,
	})

	de := debtEquityOrSentinel(stock.DebtToEquity)
	checks = append(checks, StrategyCheck{
		Name:   "Debt/Equity",
		Value:  fmt.Sprintf("%.0f%%", de),
		Target: fmt.Sprintf("< %g%%", cfg.MaxDebtEquity),
		Passed: de < cfg.MaxDebtEquity,
	})

	pe, peDisplay := ratioOrSentinel(stock.PERatio)
	checks = append(checks, StrategyCheck{
		Name:   "P/E",
		Value:  peDisplay,
		Target: fmt.Sprintf("< %g", cfg.MaxPE),
		Passed: pe < cfg.MaxPE,
	})

	return buildResult(StrategyLynch, checks)
}

func buildResult(strategy Strategy, checks []StrategyCheck) StrategyResult {
	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}

	return StrategyResult{
		StrategyName: string(strategy),
		Checks:       checks,
		Score:        int(math.Round(float64(passed) / float64(len(checks)) * 100)),
		PassedCount:  passed,
		TotalCount:   len(checks),
	}
}

// ratioOrSentinel resolves a nullable ratio for an upper-bound check:
// missing or non-positive values compare as the sentinel and display "N/A"
func ratioOrSentinel(r Ratio) (float64, string) {
	if r.Valid && r.Value > 0 {
		return r.Value, fmt.Sprintf("%.2f", r.Value)
	}
	return sentinelRatio, "N/A"
}

// debtEquityOrSentinel treats a zero debt/equity as unknown equity data
// rather than zero leverage
func debtEquityOrSentinel(de float64) float64 {
	if de == 0 {
		return sentinelRatio
	}
	return de
}

func fmtPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
