package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mizanlabs/mizan/internal/analysis"
	"github.com/mizanlabs/mizan/internal/api"
	"github.com/mizanlabs/mizan/internal/api/handlers"
	"github.com/mizanlabs/mizan/internal/external/boycott"
	"github.com/mizanlabs/mizan/internal/external/fmp"
	"github.com/mizanlabs/mizan/pkg/config"
	"github.com/mizanlabs/mizan/pkg/httputil"
	"github.com/mizanlabs/mizan/pkg/logger"
	"github.com/mizanlabs/mizan/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the REST API server.

Endpoints:
  GET  /health             - Health check
  GET  /api/analyze        - Full analysis for one ticker
  GET  /api/search         - Symbol search
  GET  /api/price-history  - Daily close series with MA50

Example:
  go run ./cmd/mizan api
  go run ./cmd/mizan api --port 8090`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Mizan API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to Redis (optional; caching and rate limiting degrade
	// to no-ops when disabled)
	rdb, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()

	if rdb.Enabled() {
		log.Info("Connected to Redis")
	}

	cache := redis.NewCache(rdb, "mizan")
	limiter := redis.NewRateLimiter(rdb, "mizan")

	// 4. Create HTTP client
	httpClient := httputil.New(cfg, log).
		WithRateLimiter(limiter, redis.FMPRateLimit)

	// 5. Create external API clients
	fmpClient := fmp.NewClient(cfg, httpClient, cache, log)
	boycottClient := boycott.NewClient(cfg, log)

	// 6. Create analysis components
	normalizer := analysis.NewNormalizer(log)
	screener := analysis.NewShariahScreener(analysis.DefaultShariahConfig, boycottClient, log)
	scorer := analysis.NewStrategyScorer(log)

	// 7. Create handlers
	analyzeHandler := handlers.NewAnalyzeHandler(fmpClient, normalizer, screener, scorer, log)
	marketHandler := handlers.NewMarketHandler(fmpClient, log)

	// 8. Create router
	router := api.NewRouter(analyzeHandler, marketHandler, log)

	// 9. Create server
	server := api.New(cfg, log, router)

	// 10. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/analyze?ticker=AAPL&strategy=Mizan")
	fmt.Println("  GET  /api/search?q=apple")
	fmt.Println("  GET  /api/price-history?ticker=AAPL&period=1y")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
