/*
tax.go - Dividend tax profiles and bracket tables

PURPOSE:
  Converts gross dividend income into after-tax income. Qualified dividends
  are taxed at the preferential QualifiedRate, ordinary dividends at the
  MarginalRate. A mixed portfolio splits its income by QualifiedShare and
  taxes each part at its own rate, never one rate on the whole.

REFERENCE DATA:
  Bracket thresholds change every year and are published data, not logic.
  TaxTable holds them; tables are loaded from configuration (see
  config/tax_tables.yaml) and turned into a TaxProfile with Profile().

EXAMPLE:
  profile := engine.TaxProfile{DividendClass: engine.Qualified, QualifiedRate: d("0.15")}
  profile.AfterTax(d("10000")) // 8500

SEE ALSO:
  - summary.go: After-tax income per year
  - config/taxtables.go: Loads TaxTable values from YAML
*/
package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TAX PROFILE
// =============================================================================

type DividendClass string

const (
	Qualified DividendClass = "qualified"
	Ordinary  DividendClass = "ordinary"
	Mixed     DividendClass = "mixed"
)

func (c DividendClass) Valid() bool {
	return c == Qualified || c == Ordinary || c == Mixed
}

// TaxProfile describes how dividend income is taxed.
type TaxProfile struct {
	DividendClass DividendClass
	MarginalRate  decimal.Decimal // ordinary income rate
	QualifiedRate decimal.Decimal

	// QualifiedShare is the fraction of income that is qualified. Only read
	// for Mixed; Qualified implies 1 and Ordinary implies 0.
	QualifiedShare decimal.Decimal
}

// qualifiedFraction resolves QualifiedShare for the profile's class.
func (p TaxProfile) qualifiedFraction() decimal.Decimal {
	switch p.DividendClass {
	case Qualified:
		return one
	case Ordinary:
		return decimal.Zero
	default:
		return p.QualifiedShare
	}
}

// Tax returns the tax due on income.
func (p TaxProfile) Tax(income decimal.Decimal) decimal.Decimal {
	qualified := mul(income, p.qualifiedFraction())
	ordinary := income.Sub(qualified)
	return mul(qualified, p.QualifiedRate).Add(mul(ordinary, p.MarginalRate))
}

// AfterTax returns income net of Tax.
func (p TaxProfile) AfterTax(income decimal.Decimal) decimal.Decimal {
	return income.Sub(p.Tax(income))
}

// EffectiveRate is the blended rate applied to one unit of income.
func (p TaxProfile) EffectiveRate() decimal.Decimal {
	return p.Tax(one)
}

func (p TaxProfile) validate() error {
	if !p.DividendClass.Valid() {
		return invalid(ReasonUnsupportedDividendClass, "tax_profile.dividend_class", "unsupported dividend class %q", p.DividendClass)
	}
	if !isFraction(p.MarginalRate) {
		return invalid(ReasonInvalidTaxRate, "tax_profile.marginal_rate", "marginal rate must be between 0 and 1, got %s", p.MarginalRate)
	}
	if !isFraction(p.QualifiedRate) {
		return invalid(ReasonInvalidTaxRate, "tax_profile.qualified_rate", "qualified rate must be between 0 and 1, got %s", p.QualifiedRate)
	}
	if p.DividendClass == Mixed && !isFraction(p.QualifiedShare) {
		return invalid(ReasonInvalidTaxRate, "tax_profile.qualified_share", "qualified share must be between 0 and 1, got %s", p.QualifiedShare)
	}
	return nil
}

func isFraction(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(one)
}

// =============================================================================
// TAX TABLE - Bracket reference data
// =============================================================================

type FilingStatus string

const (
	FilingSingle          FilingStatus = "single"
	FilingMarriedJointly  FilingStatus = "married_jointly"
	FilingHeadOfHousehold FilingStatus = "head_of_household"
)

// Bracket applies Rate to taxable income from Min upward. The bracket ends
// where the next one starts; the last bracket is open-ended.
type Bracket struct {
	Min  decimal.Decimal
	Rate decimal.Decimal
}

// TaxTable is one year's brackets for one filing status.
type TaxTable struct {
	Year         int
	FilingStatus FilingStatus
	Ordinary     []Bracket
	Qualified    []Bracket
}

// MarginalRate returns the ordinary rate of the bracket containing taxableIncome.
func (t TaxTable) MarginalRate(taxableIncome decimal.Decimal) decimal.Decimal {
	return rateFor(t.Ordinary, taxableIncome)
}

// QualifiedRate returns the qualified-dividend rate for taxableIncome.
func (t TaxTable) QualifiedRate(taxableIncome decimal.Decimal) decimal.Decimal {
	return rateFor(t.Qualified, taxableIncome)
}

// OrdinaryTax computes progressive tax on taxableIncome across all ordinary brackets.
func (t TaxTable) OrdinaryTax(taxableIncome decimal.Decimal) decimal.Decimal {
	brackets := sortedBrackets(t.Ordinary)
	tax := decimal.Zero
	for i, b := range brackets {
		if taxableIncome.LessThanOrEqual(b.Min) {
			break
		}
		upper := taxableIncome
		if i+1 < len(brackets) && brackets[i+1].Min.LessThan(upper) {
			upper = brackets[i+1].Min
		}
		tax = tax.Add(mul(upper.Sub(b.Min), b.Rate))
	}
	return tax
}

// Profile derives the TaxProfile of an investor with the given taxable income.
func (t TaxTable) Profile(taxableIncome decimal.Decimal, class DividendClass, qualifiedShare decimal.Decimal) (TaxProfile, error) {
	p := TaxProfile{
		DividendClass:  class,
		MarginalRate:   t.MarginalRate(taxableIncome),
		QualifiedRate:  t.QualifiedRate(taxableIncome),
		QualifiedShare: qualifiedShare,
	}
	if err := p.validate(); err != nil {
		return TaxProfile{}, err
	}
	return p, nil
}

// Validate checks that brackets start at zero and rates are fractions.
func (t TaxTable) Validate() error {
	for name, brackets := range map[string][]Bracket{"ordinary": t.Ordinary, "qualified": t.Qualified} {
		if len(brackets) == 0 {
			return invalid(ReasonInvalidTaxRate, name, "%d %s: no %s brackets", t.Year, t.FilingStatus, name)
		}
		sorted := sortedBrackets(brackets)
		if !sorted[0].Min.IsZero() {
			return invalid(ReasonInvalidTaxRate, name, "%d %s: first %s bracket must start at 0", t.Year, t.FilingStatus, name)
		}
		for _, b := range sorted {
			if !isFraction(b.Rate) {
				return invalid(ReasonInvalidTaxRate, name, "%d %s: rate %s out of range", t.Year, t.FilingStatus, b.Rate)
			}
		}
	}
	return nil
}

func rateFor(brackets []Bracket, income decimal.Decimal) decimal.Decimal {
	rate := decimal.Zero
	for _, b := range sortedBrackets(brackets) {
		if income.LessThan(b.Min) {
			break
		}
		rate = b.Rate
	}
	return rate
}

func sortedBrackets(brackets []Bracket) []Bracket {
	out := make([]Bracket, len(brackets))
	copy(out, brackets)
	sort.Slice(out, func(i, j int) bool { return out[i].Min.LessThan(out[j].Min) })
	return out
}
