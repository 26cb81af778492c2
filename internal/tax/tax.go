// Package tax computes a deterministic UK-style tax optimisation for a
// founder's salary: pension headroom, gift aid and cycle-to-work savings, and
// the effective income tax rate once those savings are applied.
//
// All constants come from config.TaxConfig. Arithmetic is done in decimal so
// that TotalAnnualSavings is exactly the sum of its three components.
package tax

import (
	"errors"
	"fmt"
	"math"

	"github.com/Dan9191/cfo-dashboard/internal/config"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned for negative or non-finite inputs
var ErrInvalidInput = errors.New("invalid input")

// Input is a founder's annual position
type Input struct {
	AnnualSalary               float64 `json:"annual_salary"`
	CompanyRevenue             float64 `json:"company_revenue"`
	CompanyExpenses            float64 `json:"company_expenses"`
	CurrentPensionContribution float64 `json:"current_pension_contribution"`
}

// Result is the outcome of an optimisation run
type Result struct {
	PensionContribution  decimal.Decimal `json:"pension_contribution"`
	GiftAid              decimal.Decimal `json:"gift_aid"`
	CycleToWork          decimal.Decimal `json:"cycle_to_work"`
	TotalAnnualSavings   decimal.Decimal `json:"total_annual_savings"`
	EffectiveRatePercent decimal.Decimal `json:"effective_rate_percent"`
}

// Calculator applies a TaxConfig
type Calculator struct {
	cfg config.TaxConfig
}

// NewCalculator creates a calculator for the given constants
func NewCalculator(cfg config.TaxConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

func (in Input) validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"annual salary", in.AnnualSalary},
		{"company revenue", in.CompanyRevenue},
		{"company expenses", in.CompanyExpenses},
		{"current pension contribution", in.CurrentPensionContribution},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number, got %g", ErrInvalidInput, f.name, f.v)
		}
	}
	return nil
}

// Compute returns the optimisation for in
func (c *Calculator) Compute(in Input) (Result, error) {
	if err := in.validate(); err != nil {
		return Result{}, err
	}

	salary := decimal.NewFromFloat(in.AnnualSalary)
	current := decimal.NewFromFloat(in.CurrentPensionContribution)

	headroom := decimal.NewFromFloat(c.cfg.Pension.AnnualAllowance).Sub(current)
	target := salary.Mul(decimal.NewFromFloat(c.cfg.Pension.SalaryFraction))
	pension := decimal.Max(decimal.Zero, decimal.Min(headroom, target)).Round(2)

	giftAid := bandAmount(c.cfg.GiftAid, in.AnnualSalary).Round(2)
	cycle := bandAmount(c.cfg.CycleToWork, in.AnnualSalary).Round(2)
	total := pension.Add(giftAid).Add(cycle)

	rate := decimal.Zero
	if salary.IsPositive() {
		taxable := decimal.Max(decimal.Zero, salary.Sub(total))
		rate = c.incomeTax(taxable).Div(salary).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return Result{
		PensionContribution:  pension,
		GiftAid:              giftAid,
		CycleToWork:          cycle,
		TotalAnnualSavings:   total,
		EffectiveRatePercent: rate,
	}, nil
}

// IncomeTax applies the marginal-rate table to a taxable amount
func (c *Calculator) IncomeTax(taxable float64) decimal.Decimal {
	return c.incomeTax(decimal.NewFromFloat(math.Max(0, taxable))).Round(2)
}

func (c *Calculator) incomeTax(taxable decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	lower := decimal.Zero
	hundred := decimal.NewFromInt(100)

	for i, band := range c.cfg.IncomeTax {
		if !taxable.GreaterThan(lower) {
			break
		}
		last := i == len(c.cfg.IncomeTax)-1
		slice := taxable.Sub(lower)
		if !last && band.UpTo > 0 {
			upper := decimal.NewFromFloat(band.UpTo)
			slice = decimal.Min(taxable, upper).Sub(lower)
			lower = upper
		} else {
			lower = taxable
		}
		tax = tax.Add(slice.Mul(decimal.NewFromFloat(band.RatePercent)).Div(hundred))
	}
	return tax
}

func bandAmount(bands []config.SavingBand, salary float64) decimal.Decimal {
	amount := decimal.Zero
	best := -1.0
	for _, b := range bands {
		if b.MinSalary <= salary && b.MinSalary > best {
			best = b.MinSalary
			amount = decimal.NewFromFloat(b.Amount)
		}
	}
	return amount
}
