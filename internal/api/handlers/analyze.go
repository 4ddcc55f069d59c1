package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mizanlabs/mizan/internal/analysis"
	"github.com/mizanlabs/mizan/internal/external/fmp"
	"github.com/mizanlabs/mizan/pkg/logger"
)

// MarketData is the slice of the data collaborator the analyze flow
// needs; *fmp.Client satisfies it.
type MarketData interface {
	FetchFundamentals(ctx context.Context, ticker string) (analysis.RawFundamentals, error)
	FetchPriceHistory(ctx context.Context, ticker, period string) []fmp.PricePoint
}

// AnalyzeHandler composes the full analysis for one ticker
type AnalyzeHandler struct {
	market     MarketData
	normalizer *analysis.Normalizer
	screener   *analysis.ShariahScreener
	scorer     *analysis.StrategyScorer
	logger     *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(
	market MarketData,
	normalizer *analysis.Normalizer,
	screener *analysis.ShariahScreener,
	scorer *analysis.StrategyScorer,
	log *logger.Logger,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		market:     market,
		normalizer: normalizer,
		screener:   screener,
		scorer:     scorer,
		logger:     log,
	}
}

// AnalysisResponse is the combined analysis for one ticker
type AnalysisResponse struct {
	Stock        *analysis.Stock         `json:"stock"`
	Shariah      analysis.ShariahResult  `json:"shariah"`
	Strategy     analysis.StrategyResult `json:"strategy"`
	PriceHistory []fmp.PricePoint        `json:"priceHistory"`
	ExitPlan     analysis.ExitPlan       `json:"exitPlan"`
}

// Analyze runs the full pipeline for one ticker
// GET /api/analyze?ticker=AAPL&strategy=Graham
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	strategy := analysis.ParseStrategy(r.URL.Query().Get("strategy"))

	raw, err := h.market.FetchFundamentals(ctx, ticker)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to fetch fundamentals")
		respondError(w, http.StatusBadGateway, "Failed to retrieve company data")
		return
	}

	stock, err := h.normalizer.Normalize(raw)
	if err != nil {
		if errors.Is(err, analysis.ErrNotFound) {
			respondError(w, http.StatusNotFound, "No data for this ticker")
			return
		}
		h.logger.WithError(err).WithField("ticker", ticker).Error("Normalization failed")
		respondError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	response := AnalysisResponse{
		Stock:        stock,
		Shariah:      h.screener.Screen(ctx, stock),
		Strategy:     h.scorer.Score(stock, strategy),
		PriceHistory: h.market.FetchPriceHistory(ctx, ticker, "1y"),
		ExitPlan:     analysis.ComputeExitPlan(stock),
	}

	h.logger.WithFields(map[string]interface{}{
		"ticker":    stock.Ticker,
		"strategy":  response.Strategy.StrategyName,
		"score":     response.Strategy.Score,
		"compliant": response.Shariah.IsCompliant,
	}).Info("Analysis completed")

	respondJSON(w, http.StatusOK, response)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
