package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed tax_bands.toml
var defaultTaxBands []byte

// TaxConfig holds the constants of the tax optimisation formula
type TaxConfig struct {
	Pension     PensionConfig `toml:"pension"`
	GiftAid     []SavingBand  `toml:"gift_aid"`
	CycleToWork []SavingBand  `toml:"cycle_to_work"`
	IncomeTax   []RateBand    `toml:"income_tax"`
}

// PensionConfig caps the recommended pension contribution
type PensionConfig struct {
	AnnualAllowance float64 `toml:"annual_allowance"`
	SalaryFraction  float64 `toml:"salary_fraction"`
}

// SavingBand is a fixed saving granted from a salary threshold upwards
type SavingBand struct {
	MinSalary float64 `toml:"min_salary"`
	Amount    float64 `toml:"amount"`
}

// RateBand is one marginal income tax band. A zero UpTo marks the open-ended top band.
type RateBand struct {
	UpTo        float64 `toml:"up_to,omitempty"`
	RatePercent float64 `toml:"rate_percent"`
}

// LoadTaxConfig reads tax constants from path, or the built-in table when path is empty
func LoadTaxConfig(path string) (TaxConfig, error) {
	data := defaultTaxBands
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return TaxConfig{}, fmt.Errorf("failed to read tax config: %w", err)
		}
		data = b
	}

	var cfg TaxConfig
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return TaxConfig{}, fmt.Errorf("failed to parse tax config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return TaxConfig{}, err
	}
	return cfg, nil
}

// Validate checks the table is usable by the calculator
func (c TaxConfig) Validate() error {
	if c.Pension.AnnualAllowance < 0 {
		return fmt.Errorf("pension.annual_allowance must not be negative")
	}
	if c.Pension.SalaryFraction < 0 || c.Pension.SalaryFraction > 1 {
		return fmt.Errorf("pension.salary_fraction must be within [0, 1]")
	}
	if len(c.IncomeTax) == 0 {
		return fmt.Errorf("income_tax needs at least one band")
	}
	var prev float64
	for i, b := range c.IncomeTax {
		last := i == len(c.IncomeTax)-1
		if b.UpTo == 0 && !last {
			return fmt.Errorf("income_tax band %d: only the last band may omit up_to", i)
		}
		if b.UpTo != 0 && b.UpTo <= prev {
			return fmt.Errorf("income_tax band %d: up_to must increase", i)
		}
		if b.RatePercent < 0 || b.RatePercent > 100 {
			return fmt.Errorf("income_tax band %d: rate_percent out of range", i)
		}
		prev = b.UpTo
	}
	for _, bands := range [][]SavingBand{c.GiftAid, c.CycleToWork} {
		for _, b := range bands {
			if b.Amount < 0 || b.MinSalary < 0 {
				return fmt.Errorf("saving bands must not be negative")
			}
		}
	}
	return nil
}
