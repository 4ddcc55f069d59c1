package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mizanlabs/mizan/internal/analysis"
	"github.com/mizanlabs/mizan/internal/external/boycott"
	"github.com/mizanlabs/mizan/internal/external/fmp"
	"github.com/mizanlabs/mizan/pkg/config"
	"github.com/mizanlabs/mizan/pkg/httputil"
	"github.com/mizanlabs/mizan/pkg/logger"
	"github.com/mizanlabs/mizan/pkg/redis"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis for one ticker",
	Long: `Fetch fundamentals, run the Shariah screen and score the
selected strategy for a single ticker.

Example:
  go run ./cmd/mizan analyze --ticker AAPL
  go run ./cmd/mizan analyze --ticker MSFT --strategy Graham`,
	RunE: runAnalyze,
}

var (
	analyzeTicker   string
	analyzeStrategy string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Flags
	analyzeCmd.Flags().StringVar(&analyzeTicker, "ticker", "", "ticker symbol (required)")
	analyzeCmd.Flags().StringVar(&analyzeStrategy, "strategy", "Mizan", "strategy (Mizan|Graham|Lynch)")
	analyzeCmd.MarkFlagRequired("ticker")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	rdb, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()

	cache := redis.NewCache(rdb, "mizan")
	httpClient := httputil.New(cfg, log)
	fmpClient := fmp.NewClient(cfg, httpClient, cache, log)
	boycottClient := boycott.NewClient(cfg, log)

	normalizer := analysis.NewNormalizer(log)
	screener := analysis.NewShariahScreener(analysis.DefaultShariahConfig, boycottClient, log)
	scorer := analysis.NewStrategyScorer(log)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	ticker := strings.ToUpper(analyzeTicker)
	strategy := analysis.ParseStrategy(analyzeStrategy)

	raw, err := fmpClient.FetchFundamentals(ctx, ticker)
	if err != nil {
		return fmt.Errorf("fetch fundamentals for %s: %w", ticker, err)
	}

	stock, err := normalizer.Normalize(raw)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", ticker, err)
	}

	shariah := screener.Screen(ctx, stock)
	result := scorer.Score(stock, strategy)
	exitPlan := analysis.ComputeExitPlan(stock)

	printAnalysis(stock, shariah, result, exitPlan)
	return nil
}

func printAnalysis(stock *analysis.Stock, shariah analysis.ShariahResult, result analysis.StrategyResult, exitPlan analysis.ExitPlan) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s (%s)\n", stock.Name, stock.Ticker)
	fmt.Printf("  %s / %s\n", stock.Sector, stock.Industry)
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Price       : %.2f\n", stock.CurrentPrice)
	fmt.Printf("  Market Cap  : %.0f\n", stock.MarketCap)
	fmt.Printf("  P/E         : %s\n", formatRatio(stock.PERatio))
	fmt.Printf("  EPS         : %s\n", formatRatio(stock.EPS))
	fmt.Println("───────────────────────────────────────────────────────────")

	if shariah.IsCompliant {
		fmt.Println("  Shariah     : ✅ COMPLIANT")
	} else {
		fmt.Printf("  Shariah     : ❌ NOT COMPLIANT (%s)\n", strings.Join(shariah.Failures, ", "))
	}
	fmt.Printf("    Interest income : %.2f%%\n", shariah.InterestIncomeRatio)
	fmt.Printf("    Debt ratio      : %.2f%%\n", shariah.DebtRatio)
	fmt.Printf("    Illiquid assets : %.2f%%\n", shariah.IlliquidAssetsRatio)
	fmt.Println("───────────────────────────────────────────────────────────")

	fmt.Printf("  %s score: %d (%d/%d passed)\n", result.StrategyName, result.Score, result.PassedCount, result.TotalCount)
	for _, check := range result.Checks {
		mark := "✗"
		if check.Passed {
			mark = "✓"
		}
		fmt.Printf("    %s %-22s %s (target %s)\n", mark, check.Name, check.Value, check.Target)
	}
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Exit plan   : TP1 %.2f / TP2 %.2f\n", exitPlan.TP1, exitPlan.TP2)
	fmt.Println("═══════════════════════════════════════════════════════════")
}

func formatRatio(r analysis.Ratio) string {
	if !r.Valid {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", r.Value)
}
