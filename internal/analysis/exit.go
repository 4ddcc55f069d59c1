package analysis

// Exit plan multiples: earnings-based targets when EPS is available,
// sales-based targets otherwise.
const (
	tp1EarningsMultiple = 15.0
	tp2EarningsMultiple = 25.0
	tp1SalesMultiple    = 6.0
	tp2SalesMultiple    = 10.0
)

// ComputeExitPlan derives take-profit price targets from the normalized
// fundamentals. Both targets are 0 when neither earnings nor revenue per
// share are positive.
func ComputeExitPlan(stock *Stock) ExitPlan {
	if stock.EPS.Valid && stock.EPS.Value > 0 {
		return ExitPlan{
			TP1: stock.EPS.Value * tp1EarningsMultiple,
			TP2: stock.EPS.Value * tp2EarningsMultiple,
		}
	}

	if stock.RevenuePerShare > 0 {
		return ExitPlan{
			TP1: stock.RevenuePerShare * tp1SalesMultiple,
			TP2: stock.RevenuePerShare * tp2SalesMultiple,
		}
	}

	return ExitPlan{}
}
