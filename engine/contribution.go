package engine

import "github.com/shopspring/decimal"

// =============================================================================
// CONTRIBUTION POLICY - How recurring contributions land on payment periods
// =============================================================================

// ContributionPolicy yields the cash contributed in a payment period.
// Contributions and dividends may run on different cadences; a policy maps
// one onto the other without dropping any money.
type ContributionPolicy interface {
	// ContributionFor returns the amount invested at the end of period index (1-based).
	ContributionFor(periodIndex int) decimal.Decimal

	// Alignment reports which rule the policy implements.
	Alignment() ContributionAlignment
}

// NewContributionPolicy builds the policy described by cfg.
// cfg must already be normalized (frequencies and alignment valid).
func NewContributionPolicy(cfg ProjectionConfig) ContributionPolicy {
	cpy, _ := cfg.ContributionFrequency.PeriodsPerYear()
	ppy, _ := cfg.PaymentFrequency.PeriodsPerYear()

	var policy ContributionPolicy
	if cfg.ContributionAlignment == ProrateAcrossPeriods {
		policy = &ProratedContributions{
			Amount:             cfg.RecurringContribution,
			ContributionsPerYr: cpy,
			PeriodsPerYr:       ppy,
		}
	} else {
		policy = &AlignedContributions{
			Amount:             cfg.RecurringContribution,
			ContributionsPerYr: cpy,
			PeriodsPerYr:       ppy,
		}
	}
	if cfg.ContributionGrowthRate.IsZero() {
		return policy
	}
	return &GrowingContributions{
		ContributionPolicy: policy,
		Growth:             cfg.ContributionGrowthRate,
		PeriodsPerYr:       ppy,
	}
}

// GrowingContributions scales another policy by (1+Growth)^(year-1), where
// year is the 1-based projection year of the payment period.
type GrowingContributions struct {
	ContributionPolicy
	Growth       decimal.Decimal
	PeriodsPerYr int

	factors []decimal.Decimal // factors[y-1] = (1+Growth)^(y-1)
}

func (g *GrowingContributions) ContributionFor(periodIndex int) decimal.Decimal {
	base := g.ContributionPolicy.ContributionFor(periodIndex)
	if base.IsZero() || g.PeriodsPerYr <= 0 {
		return base
	}
	year := (periodIndex-1)/g.PeriodsPerYr + 1
	step := one.Add(g.Growth)
	for len(g.factors) < year {
		if len(g.factors) == 0 {
			g.factors = append(g.factors, one)
			continue
		}
		g.factors = append(g.factors, mul(g.factors[len(g.factors)-1], step))
	}
	return mul(base, g.factors[year-1])
}

// AlignedContributions places contribution event j at j/ContributionsPerYr
// years and invests every event falling in (t[i-1], t[i]] at period i.
type AlignedContributions struct {
	Amount             decimal.Decimal
	ContributionsPerYr int
	PeriodsPerYr       int
}

func (a *AlignedContributions) ContributionFor(periodIndex int) decimal.Decimal {
	if a.Amount.IsZero() || periodIndex < 1 {
		return decimal.Zero
	}
	events := EventsInPeriod(periodIndex, a.ContributionsPerYr, a.PeriodsPerYr)
	return a.Amount.Mul(decimal.NewFromInt(int64(events)))
}

func (a *AlignedContributions) Alignment() ContributionAlignment { return AlignToPeriod }

// ProratedContributions invests Amount*ContributionsPerYr/PeriodsPerYr every period.
type ProratedContributions struct {
	Amount             decimal.Decimal
	ContributionsPerYr int
	PeriodsPerYr       int
}

func (p *ProratedContributions) ContributionFor(periodIndex int) decimal.Decimal {
	if p.Amount.IsZero() || periodIndex < 1 {
		return decimal.Zero
	}
	perYear := p.Amount.Mul(decimal.NewFromInt(int64(p.ContributionsPerYr)))
	return div(perYear, decimal.NewFromInt(int64(p.PeriodsPerYr)))
}

func (p *ProratedContributions) Alignment() ContributionAlignment { return ProrateAcrossPeriods }

// EventsInPeriod counts the events of an eventsPerYear cadence that fall in
// payment period periodIndex of a periodsPerYear cadence.
func EventsInPeriod(periodIndex, eventsPerYear, periodsPerYear int) int {
	if periodsPerYear <= 0 {
		return 0
	}
	return (periodIndex*eventsPerYear)/periodsPerYear - ((periodIndex-1)*eventsPerYear)/periodsPerYear
}
