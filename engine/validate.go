package engine

import "github.com/shopspring/decimal"

// MaxHorizonYears bounds the simulation length.
const MaxHorizonYears = 100

// DefaultSharePrice is used when a config does not name a starting price.
// It only scales share counts; every money figure is independent of it.
var DefaultSharePrice = decimal.NewFromInt(100)

// MinSharePrice is the lowest share price a projection may reach. Prices are
// rounded to workingPlaces every period, so below this the rounding error
// stops being negligible and the path can stall or hit zero.
var MinSharePrice = decimal.New(1, -6)

var minusOne = decimal.NewFromInt(-1)

// Normalize fills defaults and validates the config. It returns the first
// problem found as an *InvalidConfigError; a returned config is always safe
// to simulate (positive price, non-negative amounts, known frequencies).
func (c ProjectionConfig) Normalize() (ProjectionConfig, error) {
	if c.HorizonYears <= 0 {
		return ProjectionConfig{}, invalid(ReasonNegativeHorizon, "horizon_years", "horizon must be a positive number of years, got %d", c.HorizonYears)
	}
	if c.HorizonYears > MaxHorizonYears {
		return ProjectionConfig{}, invalid(ReasonHorizonTooLong, "horizon_years", "horizon must be at most %d years, got %d", MaxHorizonYears, c.HorizonYears)
	}

	if !c.PaymentFrequency.Valid() {
		return ProjectionConfig{}, invalid(ReasonUnsupportedFrequency, "payment_frequency", "unsupported payment frequency %q", c.PaymentFrequency)
	}
	if c.ContributionFrequency == "" {
		c.ContributionFrequency = Monthly
	}
	if !c.ContributionFrequency.Valid() {
		return ProjectionConfig{}, invalid(ReasonUnsupportedFrequency, "contribution_frequency", "unsupported contribution frequency %q", c.ContributionFrequency)
	}

	switch c.ContributionAlignment {
	case "":
		c.ContributionAlignment = AlignToPeriod
	case AlignToPeriod, ProrateAcrossPeriods:
	default:
		return ProjectionConfig{}, invalid(ReasonUnsupportedAlignment, "contribution_alignment", "unsupported contribution alignment %q", c.ContributionAlignment)
	}

	if c.InitialInvestment.IsNegative() {
		return ProjectionConfig{}, invalid(ReasonNegativeInitialInvestment, "initial_investment", "initial investment cannot be negative")
	}
	if c.RecurringContribution.IsNegative() {
		return ProjectionConfig{}, invalid(ReasonNegativeContribution, "recurring_contribution", "recurring contribution cannot be negative")
	}
	if c.ContributionGrowthRate.LessThan(minusOne) {
		return ProjectionConfig{}, invalid(ReasonNegativeContribution, "contribution_growth_rate", "contribution growth rate %s would make contributions negative", c.ContributionGrowthRate)
	}
	if c.InitialInvestment.IsZero() && c.RecurringContribution.IsZero() {
		return ProjectionConfig{}, invalid(ReasonEmptyPortfolio, "initial_investment", "initial investment and recurring contribution are both zero")
	}

	if c.InitialSharePrice.IsZero() {
		c.InitialSharePrice = DefaultSharePrice
	}
	if c.InitialSharePrice.LessThan(MinSharePrice) {
		return ProjectionConfig{}, invalid(ReasonNonPositiveSharePrice, "share_price", "share price must be at least %s", MinSharePrice)
	}

	if c.AnnualDividendPerShare.IsNegative() {
		return ProjectionConfig{}, invalid(ReasonNegativeYield, "annual_dividend", "annual dividend per share cannot be negative")
	}
	if !c.AnnualDividendPerShare.IsZero() {
		c.StartingYield = div(c.AnnualDividendPerShare, c.InitialSharePrice)
	}
	if c.StartingYield.IsNegative() {
		return ProjectionConfig{}, invalid(ReasonNegativeYield, "starting_yield", "starting yield cannot be negative")
	}

	if c.DividendGrowthRate.LessThan(minusOne) {
		return ProjectionConfig{}, invalid(ReasonDividendGrowthBelowFloor, "dividend_growth_rate", "dividend growth rate %s is below -100%%", c.DividendGrowthRate)
	}
	// Every purchase divides by the share price, which must stay positive
	// through the last period.
	if c.PriceAppreciationRate.LessThanOrEqual(minusOne) {
		return ProjectionConfig{}, invalid(ReasonPriceAppreciationBelowFloor, "price_appreciation_rate", "price appreciation rate %s would drive the share price to zero", c.PriceAppreciationRate)
	}
	if priceAtHorizon(c).LessThan(MinSharePrice) {
		return ProjectionConfig{}, invalid(ReasonPriceAppreciationBelowFloor, "price_appreciation_rate", "price appreciation rate %s drives the share price below %s within %d years", c.PriceAppreciationRate, MinSharePrice, c.HorizonYears)
	}

	if c.TaxProfile != nil {
		if err := c.TaxProfile.validate(); err != nil {
			return ProjectionConfig{}, err
		}
		profile := *c.TaxProfile
		c.TaxProfile = &profile
	}

	if c.StartDate.IsZero() {
		c.StartDate = DefaultStartDate
	}
	return c, nil
}

// Validate reports whether the config would be accepted by Project.
func (c ProjectionConfig) Validate() error {
	_, err := c.Normalize()
	return err
}
