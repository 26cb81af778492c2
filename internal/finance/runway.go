package finance

import (
	"math"

	"github.com/Dan9191/cfo-dashboard/internal/models"
)

// Runway returns how many months cashBalance lasts at burnRate.
// A non-positive burn rate means the runway is unbounded. A negative cash
// balance yields zero months.
func Runway(cashBalance, burnRate float64) (models.Months, error) {
	if err := finite("cash balance", cashBalance); err != nil {
		return 0, err
	}
	if err := finite("burn rate", burnRate); err != nil {
		return 0, err
	}
	if burnRate <= 0 {
		return models.Unbounded(), nil
	}
	return models.Months(math.Max(0, cashBalance/burnRate)), nil
}

// BreakevenMonths returns the whole number of months until compounding
// revenue growth covers monthly expenses.
//
// It is 0 when revenue already covers expenses and unbounded when there is no
// growth or no revenue to grow from.
func BreakevenMonths(monthlyRevenue, monthlyExpenses, growthRatePercent float64) (models.Months, error) {
	if err := nonNegative("monthly revenue", monthlyRevenue); err != nil {
		return 0, err
	}
	if err := nonNegative("monthly expenses", monthlyExpenses); err != nil {
		return 0, err
	}
	if err := finite("growth rate", growthRatePercent); err != nil {
		return 0, err
	}

	if monthlyRevenue >= monthlyExpenses {
		return 0, nil
	}
	if growthRatePercent <= 0 || monthlyRevenue == 0 {
		return models.Unbounded(), nil
	}

	ratio := monthlyExpenses / monthlyRevenue
	growthFactor := 1 + growthRatePercent/100
	return models.Months(math.Ceil(math.Log(ratio) / math.Log(growthFactor))), nil
}
