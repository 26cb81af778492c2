package models

// DashboardMetrics are the headline numbers shown on the dashboard cards
type DashboardMetrics struct {
	Runway     Months  `json:"runway"`
	BurnRate   float64 `json:"burn_rate"`
	TaxSavings float64 `json:"tax_savings"`
	Breakeven  Months  `json:"breakeven"` // Months until revenue covers expenses
}

// Dashboard aggregates everything the dashboard page needs
type Dashboard struct {
	FinancialData   *FinancialSnapshot `json:"financial_data"`
	TaxOptimization *TaxOptimization   `json:"tax_optimization,omitempty"`
	Integrations    []Integration      `json:"integrations"`
	Metrics         DashboardMetrics   `json:"metrics"`
}
