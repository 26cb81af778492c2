package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialSnapshot is the latest stored financial position of a user.
// RunwayMonths is derived from CashBalance and BurnRate on every write.
type FinancialSnapshot struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	CashBalance     decimal.Decimal `json:"cash_balance"`
	MonthlyRevenue  decimal.Decimal `json:"monthly_revenue"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	BurnRate        decimal.Decimal `json:"burn_rate"`
	RunwayMonths    Months          `json:"runway_months"`
	LastUpdated     time.Time       `json:"last_updated"`
}

// FinancialSnapshotInput is the client-supplied part of a snapshot
type FinancialSnapshotInput struct {
	CashBalance     decimal.Decimal `json:"cash_balance"`
	MonthlyRevenue  decimal.Decimal `json:"monthly_revenue"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	BurnRate        decimal.Decimal `json:"burn_rate"`
}

// MarketTrendAssumptions drive the projected half of forecasts.
// RiskFactorPercent doubles as the competition factor for profitability.
type MarketTrendAssumptions struct {
	GrowthRatePercent float64 `json:"growth_rate_percent"`
	RiskFactorPercent float64 `json:"risk_factor_percent"`
}

// MarketData is the macro context handed to the insight provider
type MarketData struct {
	InterestRate       float64 `json:"interest_rate"`
	InflationRate      float64 `json:"inflation_rate"`
	SectorGrowth       float64 `json:"sector_growth"`
	CompetitionIndex   float64 `json:"competition_index"`
	GDPGrowth          float64 `json:"gdp_growth"`
	Unemployment       float64 `json:"unemployment"`
	ConsumerConfidence float64 `json:"consumer_confidence"`
}
