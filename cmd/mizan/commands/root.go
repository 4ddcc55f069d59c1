package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mizan",
	Short: "Mizan - Shariah stock screening and strategy scoring",
	Long: `Mizan Unified CLI

Shariah compliance screening and value-strategy scoring over
Financial Modeling Prep market data.

Usage:
  go run ./cmd/mizan [command]

Examples:
  go run ./cmd/mizan api
  go run ./cmd/mizan analyze --ticker AAPL --strategy Graham
  go run ./cmd/mizan search apple`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
