/*
presets.go - Pre-built DRIP scenarios

PURPOSE:
  Ready-to-use projection configs for the scenario buttons on the DRIP page.
  Each preset is a complete engine.ProjectionConfig; callers may tweak any
  field before projecting.

AVAILABLE PRESETS:
  conservative:    Stable payers, 4% yield, moderate growth, 20 years
  aggressive:      Low yield, fast dividend growth, 30 years
  fire:            High savings rate toward early retirement, 15 years
  aristocrats:     25+ year dividend growers, 25 years
  high-yield:      REIT-heavy income focus, 20 years
  young-investor:  Small start, long horizon, 40 years

COMMON SETTINGS:
  Quarterly payments, monthly contributions, dividends reinvested net of a
  15% qualified-dividend tax.

SEE ALSO:
  - drip.go: Drip calculator
  - store/sqlite: Presets are seeded into the presets table at startup
*/
package calculators

import (
	"github.com/shopspring/decimal"
	"github.com/warp/dividend-engine/engine"
)

// Preset is a named DRIP scenario.
type Preset struct {
	ID          string
	Name        string
	Description string
	Config      engine.ProjectionConfig
}

// =============================================================================
// BUILT-IN PRESETS
// =============================================================================

// Presets returns the built-in scenarios in display order.
func Presets() []Preset {
	return []Preset{
		ConservativeRetiree(),
		AggressiveGrowth(),
		EarlyRetirement(),
		DividendAristocrats(),
		HighYield(),
		YoungInvestor(),
	}
}

// PresetByID looks up a built-in preset.
func PresetByID(id string) (Preset, bool) {
	for _, p := range Presets() {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// ConservativeRetiree returns a low-risk income portfolio.
func ConservativeRetiree() Preset {
	return dripPreset("conservative", "Conservative Retiree",
		"Low-risk, stable dividend stocks with moderate growth",
		"100000", "100", "4", "500", "0.03", "0.05", 20)
}

// AggressiveGrowth returns a low-yield, high-growth portfolio.
func AggressiveGrowth() Preset {
	return dripPreset("aggressive", "Aggressive Growth",
		"High-growth dividend aristocrats with lower current yield",
		"50000", "150", "3", "1000", "0.10", "0.12", 30)
}

// EarlyRetirement returns a high-savings path to financial independence.
func EarlyRetirement() Preset {
	return dripPreset("fire", "Early Retirement (FIRE)",
		"Path to financial independence with high savings rate",
		"25000", "75", "3.75", "2500", "0.07", "0.08", 15)
}

// DividendAristocrats returns a blue-chip dividend grower portfolio.
func DividendAristocrats() Preset {
	return dripPreset("aristocrats", "Dividend Aristocrats",
		"Blue-chip stocks with 25+ years of dividend growth",
		"75000", "120", "4.80", "750", "0.07", "0.08", 25)
}

// HighYield returns a REIT and high-yield income portfolio.
func HighYield() Preset {
	return dripPreset("high-yield", "High Yield Focus",
		"REITs and high-yield stocks for immediate income",
		"150000", "50", "4", "250", "0.04", "0.04", 20)
}

// YoungInvestor returns a small portfolio with a long horizon.
func YoungInvestor() Preset {
	return dripPreset("young-investor", "Young Investor",
		"Starting small with time on your side",
		"5000", "50", "1.50", "300", "0.08", "0.10", 40)
}

func dripPreset(id, name, description, initial, price, dividend, monthly, growth, appreciation string, years int) Preset {
	return Preset{
		ID:          id,
		Name:        name,
		Description: description,
		Config: engine.ProjectionConfig{
			InitialInvestment:      decimal.RequireFromString(initial),
			InitialSharePrice:      decimal.RequireFromString(price),
			AnnualDividendPerShare: decimal.RequireFromString(dividend),
			RecurringContribution:  decimal.RequireFromString(monthly),
			ContributionFrequency:  engine.Monthly,
			PaymentFrequency:       engine.Quarterly,
			DividendGrowthRate:     decimal.RequireFromString(growth),
			PriceAppreciationRate:  decimal.RequireFromString(appreciation),
			HorizonYears:           years,
			Reinvest:               true,
			ReinvestAfterTax:       true,
			TaxProfile: &engine.TaxProfile{
				DividendClass: engine.Qualified,
				QualifiedRate: decimal.RequireFromString("0.15"),
			},
		},
	}
}
