package finance

import (
	"math"

	"github.com/Dan9191/cfo-dashboard/internal/models"
)

const (
	actualQuarters = 2
	// profitabilityNoiseWidth gives a ±7.5% perturbation
	profitabilityNoiseWidth = 0.15
)

var quarterLabels = [...]string{"Q1 2024", "Q2 2024", "Q3 2024", "Q4 2024", "Q1 2025", "Q2 2025"}

// ProjectProfitability builds six quarterly points, the first two actual and
// the rest projected. Quarterly figures are the snapshot's monthly figures
// times three.
//
// Projected quarters compound revenue at trends.GrowthRatePercent/4 per
// quarter and inflate expenses by trends.RiskFactorPercent, read here as the
// competition factor.
func ProjectProfitability(snapshot models.FinancialSnapshot, trends models.MarketTrendAssumptions, noise Noise) ([]models.ProfitabilityPoint, error) {
	base, err := snapshotFigures(snapshot)
	if err != nil {
		return nil, err
	}
	if err := validateTrends(trends); err != nil {
		return nil, err
	}
	noise = orNoNoise(noise)

	quarterlyRevenue := base.revenue * 3
	quarterlyExpenses := base.expenses * 3
	growthFactor := 1 + trends.GrowthRatePercent/100/4

	points := make([]models.ProfitabilityPoint, 0, len(quarterLabels))
	for i, label := range quarterLabels {
		projected := i >= actualQuarters
		revenue, expenses := quarterlyRevenue, quarterlyExpenses

		if projected {
			revenue *= math.Pow(growthFactor, float64(i-1))
			expenses *= 1 + trends.RiskFactorPercent/100
		} else {
			v := noise.Perturb(profitabilityNoiseWidth)
			revenue *= 1 + v
			expenses *= 1 + math.Abs(v)*0.5
		}

		points = append(points, models.ProfitabilityPoint{
			Label:         label,
			Revenue:       revenue,
			Expenses:      expenses,
			Profit:        revenue - expenses,
			MarginPercent: Margin(revenue, expenses),
			IsProjected:   projected,
		})
	}

	return points, nil
}

// Margin returns profit as a percentage of revenue, or 0 without revenue
func Margin(revenue, expenses float64) float64 {
	if revenue == 0 {
		return 0
	}
	return (revenue - expenses) / revenue * 100
}
