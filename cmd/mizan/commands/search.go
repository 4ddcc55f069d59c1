package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mizanlabs/mizan/internal/external/fmp"
	"github.com/mizanlabs/mizan/pkg/config"
	"github.com/mizanlabs/mizan/pkg/httputil"
	"github.com/mizanlabs/mizan/pkg/logger"
	"github.com/mizanlabs/mizan/pkg/redis"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search tradable symbols by name or ticker",
	Long: `Search Financial Modeling Prep for symbols on the free-tier
exchanges (NASDAQ, NYSE, AMEX).

Example:
  go run ./cmd/mizan search apple`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	results, err := fmpClient.SearchSymbols(ctx, args[0])
	if err != nil {
		return fmt.Errorf("search %q: %w", args[0], err)
	}

	if len(results) == 0 {
		fmt.Println("No symbols found")
		return nil
	}

	fmt.Println()
	for _, r := range results {
		fmt.Printf("  %-8s %-40s %s\n", r.Symbol, r.Name, r.Exchange)
	}
	fmt.Printf("\n%d symbols\n", len(results))
	return nil
}
