package finance

import "github.com/Dan9191/cfo-dashboard/internal/models"

type baseFigures struct {
	cash     float64
	revenue  float64
	expenses float64
}

func snapshotFigures(s models.FinancialSnapshot) (baseFigures, error) {
	b := baseFigures{
		cash:     s.CashBalance.InexactFloat64(),
		revenue:  s.MonthlyRevenue.InexactFloat64(),
		expenses: s.MonthlyExpenses.InexactFloat64(),
	}
	if err := nonNegative("cash balance", b.cash); err != nil {
		return baseFigures{}, err
	}
	if err := nonNegative("monthly revenue", b.revenue); err != nil {
		return baseFigures{}, err
	}
	if err := nonNegative("monthly expenses", b.expenses); err != nil {
		return baseFigures{}, err
	}
	return b, nil
}

func validateTrends(t models.MarketTrendAssumptions) error {
	if err := finite("growth rate", t.GrowthRatePercent); err != nil {
		return err
	}
	return finite("risk factor", t.RiskFactorPercent)
}
