package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBoycott is a fixed-outcome boycott checker
type stubBoycott struct {
	boycotted bool
	calls     int
}

func (s *stubBoycott) IsBoycotted(ctx context.Context, companyName string) bool {
	s.calls++
	return s.boycotted
}

func cleanStock() *Stock {
	// A stock that passes every check: no debt, no interest income,
	// asset-backed, small current assets relative to market cap
	return &Stock{
		Ticker:         "CLN",
		Name:           "Clean Corp",
		Industry:       "Software",
		Sector:         "Technology",
		Description:    "Cloud software for logistics.",
		MarketCap:      1e9,
		TotalAssets:    1000,
		IlliquidAssets: 800,
		CurrentAssets:  200,
		TotalRevenue:   500,
	}
}

func TestScreenCompliantStock(t *testing.T) {
	screener := NewShariahScreener(DefaultShariahConfig, &stubBoycott{}, nil)

	result := screener.Screen(context.Background(), cleanStock())

	assert.True(t, result.IsCompliant)
	assert.Empty(t, result.Failures)
	assert.True(t, result.IsActivityCompliant)
	assert.Equal(t, "OK", result.ActivityIssue)
	assert.False(t, result.IsBoycotted)
	assert.True(t, result.IsLiquidOk)
}

func TestScreenBlacklistedSector(t *testing.T) {
	// Fixture for a shell company: industry names a prohibited sector, every
	// numeric field zero except the floored denominators
	stock := &Stock{
		Ticker:      "INS",
		Name:        "Some Insurer",
		Industry:    "Insurance",
		Sector:      "Diversified",
		Description: "",
		MarketCap:   1,
		TotalAssets: 1,
	}

	screener := NewShariahScreener(DefaultShariahConfig, nil, nil)
	result := screener.Screen(context.Background(), stock)

	require.False(t, result.IsCompliant)
	assert.Equal(t, []string{"Activity", "Real Assets < 20%"}, result.Failures)
	assert.False(t, result.IsActivityCompliant)
	assert.Equal(t, "Sector: insurance", result.ActivityIssue)

	// Zero ratios: interest and debt pass, real assets fail, liquidity ok
	assert.Zero(t, result.InterestIncomeRatio)
	assert.Zero(t, result.DebtRatio)
	assert.Zero(t, result.IlliquidAssetsRatio)
	assert.True(t, result.IsLiquidOk)
}

func TestCheckBusinessActivity(t *testing.T) {
	tests := []struct {
		name      string
		industry  string
		sector    string
		desc      string
		wantOk    bool
		wantIssue string
	}{
		{
			name:      "clean company",
			industry:  "Semiconductors",
			sector:    "Technology",
			desc:      "Designs chips for mobile devices.",
			wantOk:    true,
			wantIssue: "OK",
		},
		{
			name:      "blacklisted industry",
			industry:  "Banks - Diversified",
			sector:    "Financial Services",
			wantOk:    false,
			wantIssue: "Sector: banks",
		},
		{
			name:      "blacklisted sector case-insensitive",
			industry:  "Diversified",
			sector:    "CAPITAL MARKETS",
			wantOk:    false,
			wantIssue: "Sector: capital markets",
		},
		{
			name:      "keyword in description",
			industry:  "Beverages - Non-Alcoholic",
			sector:    "Consumer Defensive",
			desc:      "The company distributes beer and soft drinks.",
			wantOk:    false,
			wantIssue: "Keyword: beer",
		},
		{
			name:      "keyword requires whole word",
			industry:  "Consumer",
			sector:    "Consumer Cyclical",
			desc:      "Maker of winter sportswear.", // contains "win" but not "wine"
			wantOk:    true,
			wantIssue: "OK",
		},
		{
			name:      "first sector match reported",
			industry:  "Insurance",
			sector:    "Banks",
			desc:      "gambling services",
			wantOk:    false,
			wantIssue: "Sector: banks", // banks precedes insurance in the blacklist
		},
	}

	screener := NewShariahScreener(DefaultShariahConfig, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stock := &Stock{Industry: tt.industry, Sector: tt.sector, Description: tt.desc}
			ok, issue := screener.checkBusinessActivity(stock)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantIssue, issue)
		})
	}
}

func TestScreenRatioChecks(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Stock)
		wantFailure string
	}{
		{
			name: "interest income at threshold fails",
			mutate: func(s *Stock) {
				s.InterestIncome = 25
				s.TotalRevenue = 500 // exactly 5%
			},
			wantFailure: "Interest > 5%",
		},
		{
			name: "debt at threshold fails",
			mutate: func(s *Stock) {
				s.TotalDebt = 400
				s.TotalAssets = 1000 // 40% >= 33%
			},
			wantFailure: "Debt > 33%",
		},
		{
			name: "real assets at threshold fails",
			mutate: func(s *Stock) {
				s.IlliquidAssets = 200
				s.TotalAssets = 1000 // exactly 20%
			},
			wantFailure: "Real Assets < 20%",
		},
		{
			name: "current assets at market cap fails",
			mutate: func(s *Stock) {
				s.CurrentAssets = 1e9 // equals MarketCap
			},
			wantFailure: "Cash > Cap",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stock := cleanStock()
			tt.mutate(stock)

			screener := NewShariahScreener(DefaultShariahConfig, nil, nil)
			result := screener.Screen(context.Background(), stock)

			assert.False(t, result.IsCompliant)
			assert.Equal(t, []string{tt.wantFailure}, result.Failures)
		})
	}
}

func TestScreenBoycotted(t *testing.T) {
	checker := &stubBoycott{boycotted: true}
	screener := NewShariahScreener(DefaultShariahConfig, checker, nil)

	result := screener.Screen(context.Background(), cleanStock())

	assert.False(t, result.IsCompliant)
	assert.True(t, result.IsBoycotted)
	assert.Equal(t, []string{"Boycott Listed"}, result.Failures)
	assert.Equal(t, 1, checker.calls)
}

func TestScreenNoShortCircuit(t *testing.T) {
	// A stock violating every check reports all six failures in
	// evaluation order
	stock := &Stock{
		Ticker:         "BAD",
		Name:           "Bad Corp",
		Industry:       "Tobacco",
		Sector:         "Consumer Defensive",
		MarketCap:      100,
		TotalAssets:    1000,
		TotalDebt:      500,  // 50% debt
		InterestIncome: 100,  // 20% of revenue
		TotalRevenue:   500,
		IlliquidAssets: 100,  // 10% real assets
		CurrentAssets:  900,  // > market cap
	}

	screener := NewShariahScreener(DefaultShariahConfig, &stubBoycott{boycotted: true}, nil)
	result := screener.Screen(context.Background(), stock)

	want := []string{
		"Activity",
		"Boycott Listed",
		"Interest > 5%",
		"Debt > 33%",
		"Real Assets < 20%",
		"Cash > Cap",
	}
	assert.Equal(t, want, result.Failures)
	assert.False(t, result.IsCompliant)
}

func TestScreenDeterministic(t *testing.T) {
	stock := cleanStock()
	stock.Industry = "Casinos"

	screener := NewShariahScreener(DefaultShariahConfig, &stubBoycott{}, nil)

	first := screener.Screen(context.Background(), stock)
	second := screener.Screen(context.Background(), stock)

	assert.Equal(t, first, second)
}
