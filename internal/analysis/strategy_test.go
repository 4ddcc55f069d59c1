package analysis

import (
	"testing"
)

func checkByName(t *testing.T, result StrategyResult, name string) StrategyCheck {
	t.Helper()
	for _, c := range result.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not found in %s result", name, result.StrategyName)
	return StrategyCheck{}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input string
		want  Strategy
	}{
		{"Mizan", StrategyMizan},
		{"Graham", StrategyGraham},
		{"Lynch", StrategyLynch},
		{"", StrategyMizan},
		{"graham", StrategyMizan}, // names are case-sensitive
		{"Buffett", StrategyMizan},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseStrategy(tt.input); got != tt.want {
				t.Errorf("ParseStrategy(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestScoreCountsPerStrategy(t *testing.T) {
	scorer := NewStrategyScorer(nil)
	stock := &Stock{Ticker: "T", Name: "T Corp"}

	tests := []struct {
		strategy  Strategy
		wantTotal int
	}{
		{StrategyMizan, 4},
		{StrategyGraham, 5},
		{StrategyLynch, 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			result := scorer.Score(stock, tt.strategy)

			if result.StrategyName != string(tt.strategy) {
				t.Errorf("StrategyName = %q, want %q", result.StrategyName, tt.strategy)
			}
			if result.TotalCount != tt.wantTotal {
				t.Errorf("TotalCount = %d, want %d", result.TotalCount, tt.wantTotal)
			}
			if len(result.Checks) != tt.wantTotal {
				t.Errorf("len(Checks) = %d, want %d", len(result.Checks), tt.wantTotal)
			}
			if result.PassedCount > result.TotalCount {
				t.Errorf("PassedCount %d > TotalCount %d", result.PassedCount, result.TotalCount)
			}
			if result.Score < 0 || result.Score > 100 {
				t.Errorf("Score = %d, want within [0,100]", result.Score)
			}
		})
	}
}

func TestMizanSentinelPE(t *testing.T) {
	// Non-computable P/E substitutes the worst case and guarantees a
	// failed check while still displaying N/A
	stock := &Stock{
		Ticker:       "NOEARN",
		CurrentPrice: 50,
		// eps 0: peRatio and pegRatio are null
	}

	result := NewStrategyScorer(nil).Score(stock, StrategyMizan)

	pe := checkByName(t, result, "P/E")
	if pe.Passed {
		t.Error("P/E check should fail when ratio is not computable")
	}
	if pe.Value != "N/A" {
		t.Errorf("P/E value = %q, want N/A", pe.Value)
	}
	if pe.Target != "< 25" {
		t.Errorf("P/E target = %q, want < 25", pe.Target)
	}
}

func TestMizanFCFThresholdByGrowthPhase(t *testing.T) {
	tests := []struct {
		name       string
		growth     float64
		fcfYield   float64
		wantTarget string
		wantPassed bool
	}{
		{"growth company lower bar", 15, 3.0, "> 2.5% (Growth)", true},
		{"mature company higher bar", 5, 3.0, "> 5% (Mature)", false},
		{"mature company passing", 5, 6.0, "> 5% (Mature)", true},
		{"growth boundary is exclusive", 10, 3.0, "> 5% (Mature)", false},
	}

	scorer := NewStrategyScorer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stock := &Stock{RevenueGrowth: tt.growth, FCFYield: tt.fcfYield}
			result := scorer.Score(stock, StrategyMizan)

			fcf := checkByName(t, result, "FCF Yield")
			if fcf.Target != tt.wantTarget {
				t.Errorf("target = %q, want %q", fcf.Target, tt.wantTarget)
			}
			if fcf.Passed != tt.wantPassed {
				t.Errorf("passed = %v, want %v", fcf.Passed, tt.wantPassed)
			}
		})
	}
}

func TestMizanFullPass(t *testing.T) {
	stock := &Stock{
		Ticker:          "QLT",
		PERatio:         SomeRatio(18),
		FCFYield:        6.0,
		OperatingMargin: 22,
		NetDebtEbitda:   1.2,
		RevenueGrowth:   5,
	}

	result := NewStrategyScorer(nil).Score(stock, StrategyMizan)

	if result.Score != 100 || result.PassedCount != 4 {
		t.Errorf("Score = %d (passed %d), want 100 (4)", result.Score, result.PassedCount)
	}
}

func TestGrahamChecks(t *testing.T) {
	stock := &Stock{
		Ticker:           "VAL",
		PERatio:          SomeRatio(12),
		CurrentRatio:     2.0,
		DebtToEquity:     30,
		InterestCoverage: 8,
		ROE:              20, // netIncome 20 / equity 100
	}

	result := NewStrategyScorer(nil).Score(stock, StrategyGraham)

	wantOrder := []string{"P/E", "Current Ratio", "Debt/Equity", "Interest Coverage", "ROE"}
	for i, name := range wantOrder {
		if result.Checks[i].Name != name {
			t.Errorf("check[%d] = %q, want %q", i, result.Checks[i].Name, name)
		}
	}

	roe := checkByName(t, result, "ROE")
	if !roe.Passed || roe.Target != "> 8%" || roe.Value != "20.0%" {
		t.Errorf("ROE check = %+v, want pass of > 8%% at 20.0%%", roe)
	}

	if result.Score != 100 {
		t.Errorf("Score = %d, want 100", result.Score)
	}
}

func TestDebtEquityZeroTreatedAsUnknown(t *testing.T) {
	// Zero debt/equity comes from missing equity data, not from an
	// unlevered balance sheet, so it must fail the upper-bound check
	stock := &Stock{Ticker: "ZDE"}

	for _, strategy := range []Strategy{StrategyGraham, StrategyLynch} {
		result := NewStrategyScorer(nil).Score(stock, strategy)

		de := checkByName(t, result, "Debt/Equity")
		if de.Passed {
			t.Errorf("%s: Debt/Equity should fail when zero/missing", strategy)
		}
		if de.Value != "999%" {
			t.Errorf("%s: Debt/Equity value = %q, want 999%%", strategy, de.Value)
		}
	}
}

func TestLynchChecks(t *testing.T) {
	stock := &Stock{
		Ticker:        "GRW",
		PERatio:       SomeRatio(20),
		PEGRatio:      SomeRatio(0.8),
		RevenueGrowth: 25,
		DebtToEquity:  40,
	}

	result := NewStrategyScorer(nil).Score(stock, StrategyLynch)

	wantOrder := []string{"PEG", "Revenue Growth", "Debt/Equity", "P/E"}
	for i, name := range wantOrder {
		if result.Checks[i].Name != name {
			t.Errorf("check[%d] = %q, want %q", i, result.Checks[i].Name, name)
		}
	}

	if result.Score != 100 || result.PassedCount != 4 {
		t.Errorf("Score = %d (passed %d), want 100 (4)", result.Score, result.PassedCount)
	}

	peg := checkByName(t, result, "PEG")
	if peg.Value != "0.80" || peg.Target != "< 1" {
		t.Errorf("PEG check = %+v, want value 0.80 target < 1", peg)
	}
}

func TestLynchSentinelPEG(t *testing.T) {
	stock := &Stock{
		Ticker:        "NOPEG",
		PERatio:       SomeRatio(20),
		RevenueGrowth: 0, // PEG not computable
	}

	result := NewStrategyScorer(nil).Score(stock, StrategyLynch)

	peg := checkByName(t, result, "PEG")
	if peg.Passed || peg.Value != "N/A" {
		t.Errorf("PEG check = %+v, want failed N/A", peg)
	}
}

func TestScoreRounding(t *testing.T) {
	// Graham with exactly 2 of 5 passing: round(40) = 40
	stock := &Stock{
		PERatio:          SomeRatio(12), // pass
		CurrentRatio:     2.0,           // pass
		DebtToEquity:     0,             // sentinel, fail
		InterestCoverage: 1,             // fail
		ROE:              2,             // fail
	}

	result := NewStrategyScorer(nil).Score(stock, StrategyGraham)

	if result.PassedCount != 2 {
		t.Fatalf("PassedCount = %d, want 2", result.PassedCount)
	}
	if result.Score != 40 {
		t.Errorf("Score = %d, want 40", result.Score)
	}

	// 1 of 4 on Lynch: round(25) = 25
	lynchStock := &Stock{RevenueGrowth: 20}
	lynchResult := NewStrategyScorer(nil).Score(lynchStock, StrategyLynch)
	if lynchResult.PassedCount != 1 || lynchResult.Score != 25 {
		t.Errorf("Lynch score = %d (passed %d), want 25 (1)", lynchResult.Score, lynchResult.PassedCount)
	}
}

func TestComputeExitPlan(t *testing.T) {
	tests := []struct {
		name    string
		stock   Stock
		wantTP1 float64
		wantTP2 float64
	}{
		{
			name:    "earnings based",
			stock:   Stock{EPS: SomeRatio(4), RevenuePerShare: 100},
			wantTP1: 60,
			wantTP2: 100,
		},
		{
			name:    "sales based when eps not positive",
			stock:   Stock{EPS: SomeRatio(-1), RevenuePerShare: 10},
			wantTP1: 60,
			wantTP2: 100,
		},
		{
			name:    "sales based when eps missing",
			stock:   Stock{RevenuePerShare: 5},
			wantTP1: 30,
			wantTP2: 50,
		},
		{
			name:  "no targets",
			stock: Stock{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := ComputeExitPlan(&tt.stock)
			if plan.TP1 != tt.wantTP1 || plan.TP2 != tt.wantTP2 {
				t.Errorf("ComputeExitPlan() = %+v, want tp1=%v tp2=%v", plan, tt.wantTP1, tt.wantTP2)
			}
		})
	}
}
