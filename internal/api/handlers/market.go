package handlers

import (
	"context"
	"net/http"

	"github.com/mizanlabs/mizan/internal/external/fmp"
	"github.com/mizanlabs/mizan/pkg/logger"
)

// SymbolSearcher is the search/chart slice of the data collaborator;
// *fmp.Client satisfies it.
type SymbolSearcher interface {
	SearchSymbols(ctx context.Context, query string) ([]fmp.SearchResult, error)
	FetchPriceHistory(ctx context.Context, ticker, period string) []fmp.PricePoint
}

// MarketHandler handles symbol search and price history endpoints
type MarketHandler struct {
	market SymbolSearcher
	logger *logger.Logger
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(market SymbolSearcher, log *logger.Logger) *MarketHandler {
	return &MarketHandler{
		market: market,
		logger: log,
	}
}

// Search finds tradable symbols by company name
// GET /api/search?q=apple
func (h *MarketHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondJSON(w, http.StatusOK, []fmp.SearchResult{})
		return
	}

	results, err := h.market.SearchSymbols(r.Context(), query)
	if err != nil {
		h.logger.WithError(err).WithField("query", query).Error("Symbol search failed")
		respondError(w, http.StatusBadGateway, "Search failed")
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// PriceHistory returns the chart series for a ticker
// GET /api/price-history?ticker=AAPL&period=1y
func (h *MarketHandler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "1y"
	}

	points := h.market.FetchPriceHistory(r.Context(), ticker, period)
	respondJSON(w, http.StatusOK, points)
}
