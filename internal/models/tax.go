package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxOptimization is the stored result of a tax optimisation run.
// TotalAnnualSavings always equals the sum of the three components.
type TaxOptimization struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"user_id"`
	PensionContribution  decimal.Decimal `json:"pension_contribution"`
	GiftAid              decimal.Decimal `json:"gift_aid"`
	CycleToWork          decimal.Decimal `json:"cycle_to_work"`
	TotalAnnualSavings   decimal.Decimal `json:"total_annual_savings"`
	EffectiveRatePercent decimal.Decimal `json:"effective_rate_percent"`
	CalculatedAt         time.Time       `json:"calculated_at"`
}
