package models

// CashFlowPoint is one month of a cash-flow projection
type CashFlowPoint struct {
	Label       string  `json:"label"`
	CashBalance float64 `json:"cash_balance"`
	Inflow      float64 `json:"inflow"`
	Outflow     float64 `json:"outflow"`
	IsProjected bool    `json:"is_projected"`
}

// ProfitabilityPoint is one quarter of a profitability projection
type ProfitabilityPoint struct {
	Label         string  `json:"label"`
	Revenue       float64 `json:"revenue"`
	Expenses      float64 `json:"expenses"`
	Profit        float64 `json:"profit"`
	MarginPercent float64 `json:"margin_percent"`
	IsProjected   bool    `json:"is_projected"`
}
