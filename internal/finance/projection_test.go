package finance

import (
	"errors"
	"math"
	"testing"

	"github.com/Dan9191/cfo-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

func demoSnapshot() models.FinancialSnapshot {
	return models.FinancialSnapshot{
		CashBalance:     decimal.NewFromInt(445000),
		MonthlyRevenue:  decimal.NewFromInt(68000),
		MonthlyExpenses: decimal.NewFromInt(85000),
		BurnRate:        decimal.NewFromInt(24500),
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Abs(b))
}

func TestProjectCashFlow_Structure(t *testing.T) {
	trends := models.MarketTrendAssumptions{GrowthRatePercent: 8, RiskFactorPercent: 0.05}
	for _, noise := range []Noise{nil, NoNoise{}, SeededNoise(42)} {
		points, err := ProjectCashFlow(demoSnapshot(), trends, noise)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(points) != 12 {
			t.Fatalf("expected 12 points, got %d", len(points))
		}
		for i, p := range points {
			if p.IsProjected != (i >= 6) {
				t.Errorf("point %d IsProjected = %v", i, p.IsProjected)
			}
			if p.Label != monthLabels[i] {
				t.Errorf("point %d label = %q, want %q", i, p.Label, monthLabels[i])
			}
		}
		if points[0].Label != "Jan" {
			t.Errorf("first label = %q, want Jan", points[0].Label)
		}
	}
}

func TestProjectCashFlow_ZeroNoiseIsExact(t *testing.T) {
	snap := demoSnapshot()
	trends := models.MarketTrendAssumptions{GrowthRatePercent: 8, RiskFactorPercent: 5}
	points, err := ProjectCashFlow(snap, trends, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 6; i++ {
		want := 445000 + (68000-85000)*float64(i)
		if !approx(points[i].CashBalance, want) {
			t.Errorf("actual point %d balance = %f, want %f", i, points[i].CashBalance, want)
		}
		if points[i].Inflow != 68000 || points[i].Outflow != 85000 {
			t.Errorf("actual point %d flows = %f/%f", i, points[i].Inflow, points[i].Outflow)
		}
	}

	growth := 1 + 8.0/100/12
	risk := 1 + 5.0/100
	want6 := points[5].CashBalance + (68000*growth - 85000*risk)
	if !approx(points[6].CashBalance, want6) {
		t.Errorf("point 6 balance = %f, want %f", points[6].CashBalance, want6)
	}
	for i := 7; i < 12; i++ {
		want := points[i-1].CashBalance + points[i].Inflow - points[i].Outflow
		if !approx(points[i].CashBalance, want) {
			t.Errorf("point %d balance = %f, want %f", i, points[i].CashBalance, want)
		}
		wantInflow := 68000 * math.Pow(growth, float64(i-5))
		if !approx(points[i].Inflow, wantInflow) {
			t.Errorf("point %d inflow = %f, want %f", i, points[i].Inflow, wantInflow)
		}
	}
}

func TestProjectCashFlow_SeededNoiseIsReproducible(t *testing.T) {
	trends := models.MarketTrendAssumptions{GrowthRatePercent: 8, RiskFactorPercent: 0.05}
	a, _ := ProjectCashFlow(demoSnapshot(), trends, SeededNoise(7))
	b, _ := ProjectCashFlow(demoSnapshot(), trends, SeededNoise(7))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs between identical seeds: %+v vs %+v", i, a[i], b[i])
		}
	}
	for i := 0; i < 6; i++ {
		if math.Abs(a[i].Inflow/68000-1) > 0.05+1e-9 {
			t.Errorf("point %d inflow perturbation out of bounds: %f", i, a[i].Inflow)
		}
	}
}

func TestProjectCashFlow_InvalidInput(t *testing.T) {
	snap := demoSnapshot()
	snap.MonthlyExpenses = decimal.NewFromInt(-1)
	if _, err := ProjectCashFlow(snap, models.MarketTrendAssumptions{}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	trends := models.MarketTrendAssumptions{GrowthRatePercent: math.NaN()}
	if _, err := ProjectCashFlow(demoSnapshot(), trends, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProjectProfitability_Structure(t *testing.T) {
	trends := models.MarketTrendAssumptions{GrowthRatePercent: 15, RiskFactorPercent: 0.03}
	points, err := ProjectProfitability(demoSnapshot(), trends, SeededNoise(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}
	if points[0].Label != "Q1 2024" || points[5].Label != "Q2 2025" {
		t.Errorf("unexpected labels %q..%q", points[0].Label, points[5].Label)
	}
	for i, p := range points {
		if p.IsProjected != (i >= 2) {
			t.Errorf("point %d IsProjected = %v", i, p.IsProjected)
		}
		if !approx(p.Profit, p.Revenue-p.Expenses) {
			t.Errorf("point %d profit = %f, want %f", i, p.Profit, p.Revenue-p.Expenses)
		}
	}
}

func TestProjectProfitability_ProjectedFormula(t *testing.T) {
	trends := models.MarketTrendAssumptions{GrowthRatePercent: 15, RiskFactorPercent: 3}
	points, err := ProjectProfitability(demoSnapshot(), trends, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	growth := 1 + 15.0/100/4
	for i := 2; i < 6; i++ {
		wantRevenue := 68000 * 3 * math.Pow(growth, float64(i-1))
		wantExpenses := 85000 * 3 * 1.03
		if !approx(points[i].Revenue, wantRevenue) {
			t.Errorf("point %d revenue = %f, want %f", i, points[i].Revenue, wantRevenue)
		}
		if !approx(points[i].Expenses, wantExpenses) {
			t.Errorf("point %d expenses = %f, want %f", i, points[i].Expenses, wantExpenses)
		}
		wantMargin := (wantRevenue - wantExpenses) / wantRevenue * 100
		if !approx(points[i].MarginPercent, wantMargin) {
			t.Errorf("point %d margin = %f, want %f", i, points[i].MarginPercent, wantMargin)
		}
	}
}

func TestProjectProfitability_ZeroRevenueMargin(t *testing.T) {
	snap := demoSnapshot()
	snap.MonthlyRevenue = decimal.Zero
	points, err := ProjectProfitability(snap, models.MarketTrendAssumptions{GrowthRatePercent: 15}, SeededNoise(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range points {
		if p.Revenue != 0 {
			t.Errorf("point %d revenue = %f, want 0", i, p.Revenue)
		}
		if p.MarginPercent != 0 {
			t.Errorf("point %d margin = %f, want 0", i, p.MarginPercent)
		}
	}
}
