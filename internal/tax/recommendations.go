package tax

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Recommendations turns a result into plain advice lines
func Recommendations(in Input, r Result) []string {
	var out []string

	if r.PensionContribution.IsPositive() {
		out = append(out, fmt.Sprintf(
			"Increase employer pension contributions by %s this tax year; contributions within the annual allowance are deductible for the company.",
			gbp(r.PensionContribution)))
	} else {
		out = append(out, "Your pension annual allowance is already fully used; carry-forward of unused allowance from the previous three years may still apply.")
	}

	if r.GiftAid.IsPositive() {
		out = append(out, fmt.Sprintf(
			"Route charitable giving through Gift Aid to reclaim up to %s of higher-rate relief through your self-assessment return.",
			gbp(r.GiftAid)))
	}

	if r.CycleToWork.IsPositive() {
		out = append(out, fmt.Sprintf(
			"Offer a Cycle to Work salary sacrifice scheme, worth about %s a year in income tax and National Insurance.",
			gbp(r.CycleToWork)))
	}

	if in.CompanyRevenue > in.CompanyExpenses {
		out = append(out, "The company is profitable; review the salary and dividend split before the year end to use the dividend allowance.")
	} else {
		out = append(out, "The company is loss-making; trading losses can be carried forward against future profits or back against prior-year profits.")
	}

	out = append(out, fmt.Sprintf("Estimated total annual saving: %s, for an effective income tax rate of %s%%.",
		gbp(r.TotalAnnualSavings), r.EffectiveRatePercent.StringFixed(2)))
	return out
}

func gbp(d decimal.Decimal) string {
	return money.NewFromFloat(d.InexactFloat64(), money.GBP).Display()
}
