package finance

import (
	"math"

	"github.com/Dan9191/cfo-dashboard/internal/models"
)

const (
	actualMonths    = 6
	projectedMonths = 6
	// cashFlowNoiseWidth gives a ±5% perturbation
	cashFlowNoiseWidth = 0.1
)

var monthLabels = [actualMonths + projectedMonths]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// ProjectCashFlow builds twelve monthly points: six actual months followed by
// six projected months.
//
// Actual months follow the snapshot's net monthly flow, perturbed by noise.
// Projected months compound revenue monthly at trends.GrowthRatePercent/12 and
// inflate expenses by trends.RiskFactorPercent, accumulating from the last
// actual balance. A nil noise source gives zero noise.
func ProjectCashFlow(snapshot models.FinancialSnapshot, trends models.MarketTrendAssumptions, noise Noise) ([]models.CashFlowPoint, error) {
	base, err := snapshotFigures(snapshot)
	if err != nil {
		return nil, err
	}
	if err := validateTrends(trends); err != nil {
		return nil, err
	}
	noise = orNoNoise(noise)

	points := make([]models.CashFlowPoint, 0, len(monthLabels))
	net := base.revenue - base.expenses

	for i := 0; i < actualMonths; i++ {
		v := noise.Perturb(cashFlowNoiseWidth)
		points = append(points, models.CashFlowPoint{
			Label:       monthLabels[i],
			CashBalance: base.cash + net*float64(i) + v*base.cash,
			Inflow:      base.revenue * (1 + v),
			Outflow:     base.expenses * (1 + v),
		})
	}

	balance := points[actualMonths-1].CashBalance
	growthFactor := 1 + trends.GrowthRatePercent/100/12
	outflow := base.expenses * (1 + trends.RiskFactorPercent/100)

	for i := actualMonths; i < len(monthLabels); i++ {
		inflow := base.revenue * math.Pow(growthFactor, float64(i-actualMonths+1))
		balance += inflow - outflow
		points = append(points, models.CashFlowPoint{
			Label:       monthLabels[i],
			CashBalance: balance,
			Inflow:      inflow,
			Outflow:     outflow,
			IsProjected: true,
		})
	}

	return points, nil
}
