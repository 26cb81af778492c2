package tax

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Dan9191/cfo-dashboard/internal/config"
	"github.com/shopspring/decimal"
)

func defaultCalculator(t *testing.T) *Calculator {
	t.Helper()
	cfg, err := config.LoadTaxConfig("")
	if err != nil {
		t.Fatalf("load default tax config: %v", err)
	}
	return NewCalculator(cfg)
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func TestCompute_BasicRateFounder(t *testing.T) {
	calc := defaultCalculator(t)
	r, err := calc.Compute(Input{AnnualSalary: 50000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"pension", r.PensionContribution, "5000"},
		{"gift aid", r.GiftAid, "0"},
		{"cycle to work", r.CycleToWork, "600"},
		{"total", r.TotalAnnualSavings, "5600"},
		{"effective rate", r.EffectiveRatePercent, "12.73"},
	}
	for _, c := range checks {
		if !c.got.Equal(mustDecimal(t, c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
}

func TestCompute_DemoFounder(t *testing.T) {
	calc := defaultCalculator(t)
	in := Input{
		AnnualSalary:               68000 * 12 * 0.3,
		CompanyRevenue:             68000 * 12,
		CompanyExpenses:            85000 * 12,
		CurrentPensionContribution: 3000,
	}
	r, err := calc.Compute(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.PensionContribution.Equal(mustDecimal(t, "24480")) {
		t.Errorf("pension = %s, want 24480", r.PensionContribution)
	}
	if !r.GiftAid.Equal(mustDecimal(t, "2800")) || !r.CycleToWork.Equal(mustDecimal(t, "1200")) {
		t.Errorf("bands = %s / %s, want 2800 / 1200", r.GiftAid, r.CycleToWork)
	}
	if !r.EffectiveRatePercent.Equal(mustDecimal(t, "32.07")) {
		t.Errorf("effective rate = %s, want 32.07", r.EffectiveRatePercent)
	}
}

func TestCompute_PensionCappedByAllowanceHeadroom(t *testing.T) {
	calc := defaultCalculator(t)
	r, err := calc.Compute(Input{AnnualSalary: 1_000_000, CurrentPensionContribution: 35000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.PensionContribution.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("pension = %s, want 5000", r.PensionContribution)
	}

	r, err = calc.Compute(Input{AnnualSalary: 1_000_000, CurrentPensionContribution: 50000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.PensionContribution.IsZero() {
		t.Errorf("pension = %s, want 0 once allowance is used", r.PensionContribution)
	}
}

func TestCompute_TotalIsSumOfComponents(t *testing.T) {
	calc := defaultCalculator(t)
	for _, salary := range []float64{0, 1, 12569.99, 12570, 33333.33, 50270, 99999.99, 125140, 250000.55, 2e6} {
		for _, current := range []float64{0, 3000, 39999.99, 45000} {
			r, err := calc.Compute(Input{AnnualSalary: salary, CurrentPensionContribution: current})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			sum := r.PensionContribution.Add(r.GiftAid).Add(r.CycleToWork)
			if !r.TotalAnnualSavings.Equal(sum) {
				t.Errorf("salary %g: total %s != sum %s", salary, r.TotalAnnualSavings, sum)
			}
		}
	}
}

func TestCompute_ZeroSalary(t *testing.T) {
	calc := defaultCalculator(t)
	r, err := calc.Compute(Input{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.TotalAnnualSavings.IsZero() || !r.EffectiveRatePercent.IsZero() {
		t.Errorf("expected zero result, got %+v", r)
	}
}

func TestCompute_InvalidInput(t *testing.T) {
	calc := defaultCalculator(t)
	inputs := []Input{
		{AnnualSalary: -1},
		{AnnualSalary: math.NaN()},
		{AnnualSalary: 1000, CompanyRevenue: math.Inf(1)},
		{AnnualSalary: 1000, CurrentPensionContribution: -5},
	}
	for _, in := range inputs {
		if _, err := calc.Compute(in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Compute(%+v) error = %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestIncomeTax_Bands(t *testing.T) {
	calc := defaultCalculator(t)
	tests := []struct {
		taxable float64
		want    string
	}{
		{0, "0"},
		{12570, "0"},
		{20000, "1486"},
		{50270, "7540"},
		{125140, "37488"},
		{200000, "71175"},
	}
	for _, tt := range tests {
		if got := calc.IncomeTax(tt.taxable); !got.Equal(mustDecimal(t, tt.want)) {
			t.Errorf("IncomeTax(%g) = %s, want %s", tt.taxable, got, tt.want)
		}
	}
}

func TestCustomConfig(t *testing.T) {
	calc := NewCalculator(config.TaxConfig{
		Pension:     config.PensionConfig{AnnualAllowance: 1000, SalaryFraction: 0.5},
		GiftAid:     []config.SavingBand{{MinSalary: 0, Amount: 10}},
		CycleToWork: []config.SavingBand{{MinSalary: 100, Amount: 20}},
		IncomeTax:   []config.RateBand{{RatePercent: 10}},
	})
	r, err := calc.Compute(Input{AnnualSalary: 10000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.TotalAnnualSavings.Equal(decimal.NewFromInt(1030)) {
		t.Errorf("total = %s, want 1030", r.TotalAnnualSavings)
	}
	// (10000 - 1030) * 10% / 10000
	if !r.EffectiveRatePercent.Equal(mustDecimal(t, "8.97")) {
		t.Errorf("effective rate = %s, want 8.97", r.EffectiveRatePercent)
	}
}

func TestRecommendations(t *testing.T) {
	calc := defaultCalculator(t)
	in := Input{AnnualSalary: 60000, CompanyRevenue: 800000, CompanyExpenses: 1000000}
	r, err := calc.Compute(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recs := Recommendations(in, r)
	if len(recs) < 3 {
		t.Fatalf("expected several recommendations, got %d", len(recs))
	}
	joined := strings.Join(recs, "\n")
	for _, want := range []string{"£6,000.00", "Gift Aid", "Cycle to Work", "loss-making"} {
		if !strings.Contains(joined, want) {
			t.Errorf("recommendations missing %q:\n%s", want, joined)
		}
	}
}
